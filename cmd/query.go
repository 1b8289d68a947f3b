package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/nestedset"
	"github.com/agentic-research/nestree/internal/render"
)

var (
	rootID        int64
	depthFlag     int
	optionsFormat string

	excludeID     int64
	groupID       int64
	baselineFlag  int
	noCounts      bool
	outlineFormat string

	anchorID       int64
	dropdownFormat string

	pretty bool
)

func init() {
	optionsCmd.Flags().Int64Var(&rootID, "root", 0, "Start record ID (0 = every root)")
	optionsCmd.Flags().IntVar(&depthFlag, "depth", -1, "Levels to descend below the start (negative = unbounded)")
	optionsCmd.Flags().StringVarP(&optionsFormat, "output", "o", "text", "Output format: text or json")

	outlineCmd.Flags().Int64Var(&excludeID, "exclude", 0, "Record left out of the outline (default from config)")
	outlineCmd.Flags().Int64Var(&groupID, "group", 0, "Outline only this group (default from config, 0 = every group)")
	outlineCmd.Flags().IntVar(&baselineFlag, "baseline", 0, "Level of the top-level items (default from config)")
	outlineCmd.Flags().StringVarP(&outlineFormat, "output", "o", "html", "Output format: html or text")
	outlineCmd.Flags().BoolVar(&noCounts, "no-counts", false, "Skip descendant counts")

	dropdownCmd.Flags().Int64Var(&anchorID, "anchor", 0, "Anchor record ID")
	_ = dropdownCmd.MarkFlagRequired("anchor")
	dropdownCmd.Flags().StringVarP(&dropdownFormat, "output", "o", "text", "Output format: text or json")

	treeCmd.Flags().Int64Var(&rootID, "root", 0, "Start record ID (0 = every root)")
	treeCmd.Flags().IntVar(&depthFlag, "depth", -1, "Levels to descend below the start (negative = unbounded)")
	treeCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")

	rootCmd.AddCommand(optionsCmd, outlineCmd, dropdownCmd, treeCmd)
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print the indented option list of the tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = e.Close() }()

		opts, err := e.builder.Options(cmd.Context(), nestedset.ByID(api.ID(rootID)), nestedset.DepthFromFlag(depthFlag))
		if err != nil {
			return err
		}
		return writeOptions(cmd.OutOrStdout(), opts, optionsFormat)
	},
}

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Render the sortable outline of every record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = e.Close() }()

		exclude := api.ID(e.cfg.Outline.Exclude)
		if cmd.Flags().Changed("exclude") {
			exclude = api.ID(excludeID)
		}
		group := api.ID(e.cfg.Outline.Group)
		if cmd.Flags().Changed("group") {
			group = api.ID(groupID)
		}
		baseline := e.cfg.Outline.Baseline
		if cmd.Flags().Changed("baseline") {
			baseline = baselineFlag
		}

		var m nestedset.Markup
		switch outlineFormat {
		case "html":
			h := render.NewHTML(e.cfg.Outline.UpdateURL, e.cfg.Outline.DeleteURL)
			h.NoCounts = noCounts
			m = h
		case "text":
			t := render.NewText(baseline)
			t.NoCounts = noCounts
			m = t
		default:
			return fmt.Errorf("unknown output format %q", outlineFormat)
		}

		out, err := e.builder.GroupOutline(cmd.Context(), group, exclude, baseline, m)
		if errors.Is(err, nestedset.ErrMalformedSequence) {
			return fmt.Errorf("%w (check --exclude, --group and --baseline)", err)
		}
		if err != nil {
			return err
		}
		if outlineFormat == "text" {
			out = render.Compact(out)
		} else if out != "" {
			out += "\n"
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	},
}

var dropdownCmd = &cobra.Command{
	Use:   "dropdown",
	Short: "Print the records sharing the anchor's group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = e.Close() }()

		opts, err := e.builder.ScopedList(cmd.Context(), api.ID(anchorID))
		if err != nil {
			return err
		}
		return writeOptions(cmd.OutOrStdout(), opts, dropdownFormat)
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the key/children structure as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = e.Close() }()

		nodes, err := e.builder.Tree(cmd.Context(), nestedset.ByID(api.ID(rootID)), nestedset.DepthFromFlag(depthFlag))
		if err != nil {
			return err
		}
		if nodes == nil {
			nodes = []api.TreeNode{}
		}
		return writeJSON(cmd.OutOrStdout(), nodes, pretty)
	},
}

func writeOptions(w io.Writer, opts nestedset.OptionMap, format string) error {
	switch format {
	case "json":
		return writeJSON(w, nestedset.Entries(opts), false)
	case "text":
		for id, label := range opts.All() {
			if _, err := fmt.Fprintf(w, "%d\t%s\n", id, label); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeJSON(w io.Writer, v any, indent bool) error {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
