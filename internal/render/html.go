// Package render provides Markup implementations for nestedset outlines.
package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/nestedset"
)

// HTML renders the sortable (nestable.js) outline markup: a div.dd container,
// ol.dd-list lists and li.dd-item items with a drag handle, the escaped title,
// action links and a descendant badge.
type HTML struct {
	// UpdateURL and DeleteURL are fmt patterns receiving the record ID.
	UpdateURL string
	DeleteURL string
	// NoCounts suppresses the descendant badge and the count lookups it needs.
	NoCounts bool
}

var _ nestedset.CountingMarkup = HTML{}

// NewHTML returns an HTML markup with the given action URL patterns.
func NewHTML(updateURL, deleteURL string) HTML {
	return HTML{UpdateURL: updateURL, DeleteURL: deleteURL}
}

func (HTML) OpenContainer() string  { return `<div class="dd" id="sortable">` }
func (HTML) CloseContainer() string { return `</div>` }

func (HTML) OpenList(level int) string {
	return `<ol class="dd-list" data-level="` + strconv.Itoa(level) + `">`
}

func (HTML) CloseList() string { return `</ol>` }

func (HTML) OpenItem(r api.Record) string {
	return `<li class="dd-item" data-term="` + strconv.FormatInt(int64(r.ID), 10) + `">`
}

func (HTML) CloseItem() string { return `</li>` }

func (h HTML) CountsDescendants() bool { return !h.NoCounts }

// Fragment renders the handle and content divs of one item. Even indexes get
// the "odd" class, matching the row striping of the admin theme.
func (h HTML) Fragment(index int, r api.Record) string {
	var sb strings.Builder
	sb.WriteString(`<div class="dd-handle"><i class="fa fa-arrows fa-fw"></i></div>`)
	sb.WriteByte('\n')

	stripe := "even"
	if index%2 == 0 {
		stripe = "odd"
	}
	sb.WriteString(`<div class="dd-content ` + stripe + `">`)
	sb.WriteString(html.EscapeString(r.Title))

	id := int64(r.ID)
	sb.WriteString(`<span class="action-buttons">`)
	fmt.Fprintf(&sb, `<a href="%s" data-toggle="tooltip" title="Update" data-pjax="0">`+
		`<span class="glyphicon glyphicon-pencil"></span></a>`,
		html.EscapeString(actionURL(h.UpdateURL, id)))
	fmt.Fprintf(&sb, `<a href="%s" data-toggle="tooltip" title="Delete" data-id="delete-%d" data-pjax="0" `+
		`data-method="post" data-confirm="Are you sure you want to delete this item?">`+
		`<span class="glyphicon glyphicon-trash"></span></a>`,
		html.EscapeString(actionURL(h.DeleteURL, id)), id)
	eye := "close"
	if r.Active {
		eye = "open"
	}
	fmt.Fprintf(&sb, `<a href="#" data-toggle="tooltip" title="Toggle active" data-pjax="0" data-toggle-active-term="%d">`+
		`<span class="glyphicon glyphicon-eye-%s"></span></a>`, id, eye)
	sb.WriteString(`</span>`)

	if !h.NoCounts && r.ChildCount > 0 {
		fmt.Fprintf(&sb, `<span class="children"> (%d)</span>`, r.ChildCount)
	}
	sb.WriteString(`</div>`)
	sb.WriteByte('\n')
	return sb.String()
}

// actionURL substitutes id for every %d in pattern. Other percent sequences
// are left as written. Patterns without %d get the ID appended as a query
// parameter.
func actionURL(pattern string, id int64) string {
	if pattern == "" {
		return "#"
	}
	ids := strconv.FormatInt(id, 10)
	if strings.Contains(pattern, "%d") {
		return strings.ReplaceAll(pattern, "%d", ids)
	}
	sep := "?"
	if strings.Contains(pattern, "?") {
		sep = "&"
	}
	return pattern + sep + "id=" + ids
}
