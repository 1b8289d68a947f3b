package config

// fileConfig mirrors Config with optional fields so that only the attributes
// present in the file override the defaults.
type fileConfig struct {
	Source  *fileSource  `hcl:"source,block"`
	Glyphs  *fileGlyphs  `hcl:"glyphs,block"`
	Outline *fileOutline `hcl:"outline,block"`
	Logging *fileLogging `hcl:"logging,block"`
}

type fileSource struct {
	Driver   *string      `hcl:"driver,optional"`
	Path     *string      `hcl:"path,optional"`
	Table    *string      `hcl:"table,optional"`
	Selector *string      `hcl:"selector,optional"`
	Columns  *fileColumns `hcl:"columns,block"`
}

type fileColumns struct {
	ID     *string `hcl:"id,optional"`
	Title  *string `hcl:"title,optional"`
	Left   *string `hcl:"left,optional"`
	Right  *string `hcl:"right,optional"`
	Level  *string `hcl:"level,optional"`
	Root   *string `hcl:"root,optional"`
	Active *string `hcl:"active,optional"`
}

type fileGlyphs struct {
	Indent      *string `hcl:"indent,optional"`
	Arrow       *string `hcl:"arrow,optional"`
	ScopedArrow *string `hcl:"scoped_arrow,optional"`
}

type fileOutline struct {
	Exclude   *int64  `hcl:"exclude,optional"`
	Group     *int64  `hcl:"group,optional"`
	Baseline  *int    `hcl:"baseline,optional"`
	UpdateURL *string `hcl:"update_url,optional"`
	DeleteURL *string `hcl:"delete_url,optional"`
}

type fileLogging struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (fc *fileConfig) apply(cfg *Config) {
	if s := fc.Source; s != nil {
		set(&cfg.Source.Driver, s.Driver)
		set(&cfg.Source.Path, s.Path)
		set(&cfg.Source.Table, s.Table)
		set(&cfg.Source.Selector, s.Selector)
		if c := s.Columns; c != nil {
			set(&cfg.Source.Columns.ID, c.ID)
			set(&cfg.Source.Columns.Title, c.Title)
			set(&cfg.Source.Columns.Left, c.Left)
			set(&cfg.Source.Columns.Right, c.Right)
			set(&cfg.Source.Columns.Level, c.Level)
			set(&cfg.Source.Columns.Root, c.Root)
			set(&cfg.Source.Columns.Active, c.Active)
		}
	}
	if g := fc.Glyphs; g != nil {
		set(&cfg.Glyphs.Indent, g.Indent)
		set(&cfg.Glyphs.Arrow, g.Arrow)
		set(&cfg.Glyphs.ScopedArrow, g.ScopedArrow)
	}
	if o := fc.Outline; o != nil {
		set(&cfg.Outline.Exclude, o.Exclude)
		set(&cfg.Outline.Group, o.Group)
		set(&cfg.Outline.Baseline, o.Baseline)
		set(&cfg.Outline.UpdateURL, o.UpdateURL)
		set(&cfg.Outline.DeleteURL, o.DeleteURL)
	}
	if l := fc.Logging; l != nil {
		set(&cfg.Logging.Level, l.Level)
		set(&cfg.Logging.Format, l.Format)
	}
}
