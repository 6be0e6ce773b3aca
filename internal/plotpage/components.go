package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// maxGridColumns bounds the stat grid width.
const maxGridColumns = 4

// Text renders a paragraph of plain text.
type Text struct {
	Content string
}

// NewText creates a text component.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// Render writes the text HTML.
func (t *Text) Render(w io.Writer) error {
	_, err := w.Write([]byte(mustRenderTemplate("text.html", t)))
	if err != nil {
		return fmt.Errorf("writing text: %w", err)
	}

	return nil
}

// RawHTML embeds a pre-rendered fragment, such as an inline SVG diagram.
// The content is trusted; never feed it user input.
type RawHTML struct {
	Content template.HTML
}

// NewRawHTML wraps a trusted HTML fragment.
func NewRawHTML(content string) *RawHTML {
	return &RawHTML{Content: template.HTML(content)}
}

// Render writes the fragment unchanged.
func (r *RawHTML) Render(w io.Writer) error {
	_, err := w.Write([]byte(r.Content))
	if err != nil {
		return fmt.Errorf("writing raw html: %w", err)
	}

	return nil
}

// Stat is one labeled value in a stat grid.
type Stat struct {
	Label string
	Value string
	Trend string
}

// NewStat creates a stat component.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value}
}

// WithTrend attaches a small trend annotation under the value.
func (s *Stat) WithTrend(trend string) *Stat {
	s.Trend = trend

	return s
}

// Render writes the stat HTML.
func (s *Stat) Render(w io.Writer) error {
	_, err := w.Write([]byte(mustRenderTemplate("stat.html", s)))
	if err != nil {
		return fmt.Errorf("writing stat: %w", err)
	}

	return nil
}

// Grid lays out components in columns.
type Grid struct {
	Columns int
	Items   []Renderable
}

// NewGrid creates a grid with the given column count, capped at
// maxGridColumns.
func NewGrid(columns int, items ...Renderable) *Grid {
	if columns < 1 {
		columns = 1
	}

	if columns > maxGridColumns {
		columns = maxGridColumns
	}

	return &Grid{Columns: columns, Items: items}
}

// Render writes the grid HTML.
func (g *Grid) Render(w io.Writer) error {
	items := make([]template.HTML, 0, len(g.Items))

	for _, item := range g.Items {
		var buf bytes.Buffer

		err := item.Render(&buf)
		if err != nil {
			return fmt.Errorf("rendering grid item: %w", err)
		}

		items = append(items, template.HTML(buf.String()))
	}

	data := struct {
		Columns int
		Items   []template.HTML
	}{Columns: g.Columns, Items: items}

	_, err := w.Write([]byte(mustRenderTemplate("grid.html", data)))
	if err != nil {
		return fmt.Errorf("writing grid: %w", err)
	}

	return nil
}

// Table renders a striped data table. String cells are escaped;
// template.HTML cells, such as link fragments, render as markup.
type Table struct {
	Headers []string
	Rows    [][]any
	Notice  string
}

// NewTable creates a table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{Headers: headers}
}

// AddRow appends one row of cells.
func (t *Table) AddRow(cells ...any) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// WithNotice sets a footer notice, e.g. a truncation message.
func (t *Table) WithNotice(notice string) *Table {
	t.Notice = notice

	return t
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	_, err := w.Write([]byte(mustRenderTemplate("table.html", t)))
	if err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	return nil
}

// AlertColor selects an alert's semantic styling.
type AlertColor string

// Alert colors.
const (
	AlertInfo    AlertColor = "info"
	AlertWarning AlertColor = "warning"
	AlertError   AlertColor = "error"
)

// Alert renders a titled callout, used for load errors and empty states.
type Alert struct {
	Title   string
	Message string
	Color   AlertColor
}

// NewAlert creates an alert component.
func NewAlert(title, message string, color AlertColor) *Alert {
	return &Alert{Title: title, Message: message, Color: color}
}

// Render writes the alert HTML.
func (a *Alert) Render(w io.Writer) error {
	_, err := w.Write([]byte(mustRenderTemplate("alert.html", a)))
	if err != nil {
		return fmt.Errorf("writing alert: %w", err)
	}

	return nil
}

// Link renders an anchor.
type Link struct {
	Href   string
	Label  string
	Active bool
}

// NewLink creates a link component.
func NewLink(href, label string) *Link {
	return &Link{Href: href, Label: label}
}

// Fragment returns the rendered anchor for embedding inside another
// component, such as a table cell.
func (l *Link) Fragment() template.HTML {
	return mustRenderTemplate("link.html", l)
}

// Render writes the anchor HTML.
func (l *Link) Render(w io.Writer) error {
	_, err := w.Write([]byte(l.Fragment()))
	if err != nil {
		return fmt.Errorf("writing link: %w", err)
	}

	return nil
}

// LinkGroup renders a row of links styled as tabs. Marking a link Active
// highlights the current choice.
type LinkGroup struct {
	Links []Link
}

// NewLinkGroup creates a link group.
func NewLinkGroup(links ...Link) *LinkGroup {
	return &LinkGroup{Links: links}
}

// Render writes the link group HTML.
func (g *LinkGroup) Render(w io.Writer) error {
	_, err := w.Write([]byte(mustRenderTemplate("linkgroup.html", g)))
	if err != nil {
		return fmt.Errorf("writing link group: %w", err)
	}

	return nil
}

// Option is one select choice. Label falls back to Value when empty.
type Option struct {
	Value string
	Label string
}

// Select renders a labeled dropdown bound to a query parameter.
type Select struct {
	Name     string
	Label    string
	Options  []Option
	Selected string
}

// NewSelect creates a select with plain value options.
func NewSelect(name, label string, values []string, selected string) *Select {
	options := make([]Option, 0, len(values))
	for _, v := range values {
		options = append(options, Option{Value: v})
	}

	return &Select{Name: name, Label: label, Options: options, Selected: selected}
}

// Render writes the select HTML.
func (s *Select) Render(w io.Writer) error {
	_, err := w.Write([]byte(mustRenderTemplate("select.html", s)))
	if err != nil {
		return fmt.Errorf("writing select: %w", err)
	}

	return nil
}

// Input renders a labeled form input bound to a query parameter.
type Input struct {
	Type        string
	Name        string
	Label       string
	Value       string
	Placeholder string
	Min         string
	Max         string
}

// NewTextInput creates a text input.
func NewTextInput(name, label, value string) *Input {
	return &Input{Type: "text", Name: name, Label: label, Value: value}
}

// NewNumberInput creates a number input; empty min or max leaves that
// bound off.
func NewNumberInput(name, label, value, minBound, maxBound string) *Input {
	return &Input{Type: "number", Name: name, Label: label, Value: value, Min: minBound, Max: maxBound}
}

// Render writes the input HTML.
func (i *Input) Render(w io.Writer) error {
	_, err := w.Write([]byte(mustRenderTemplate("input.html", i)))
	if err != nil {
		return fmt.Errorf("writing input: %w", err)
	}

	return nil
}

// HiddenField carries fixed state through a form submission.
type HiddenField struct {
	Name  string
	Value string
}

// Form renders a GET form whose fields map onto query parameters.
type Form struct {
	Action string
	Title  string
	Submit string
	Hidden []HiddenField
	Fields []Renderable
}

// NewForm creates a GET form posting to action.
func NewForm(action, submit string, fields ...Renderable) *Form {
	return &Form{Action: action, Submit: submit, Fields: fields}
}

// WithTitle sets a heading above the form controls.
func (f *Form) WithTitle(title string) *Form {
	f.Title = title

	return f
}

// WithHidden adds a hidden field.
func (f *Form) WithHidden(name, value string) *Form {
	f.Hidden = append(f.Hidden, HiddenField{Name: name, Value: value})

	return f
}

// Render writes the form HTML.
func (f *Form) Render(w io.Writer) error {
	fields := make([]template.HTML, 0, len(f.Fields))

	for _, field := range f.Fields {
		var buf bytes.Buffer

		err := field.Render(&buf)
		if err != nil {
			return fmt.Errorf("rendering form field: %w", err)
		}

		fields = append(fields, template.HTML(buf.String()))
	}

	data := struct {
		Action string
		Title  string
		Submit string
		Hidden []HiddenField
		Fields []template.HTML
	}{Action: f.Action, Title: f.Title, Submit: f.Submit, Hidden: f.Hidden, Fields: fields}

	_, err := w.Write([]byte(mustRenderTemplate("form.html", data)))
	if err != nil {
		return fmt.Errorf("writing form: %w", err)
	}

	return nil
}

// TabItem is one tab in a tab group.
type TabItem struct {
	ID      string
	Label   string
	Content Renderable
}

// Tabs renders a tabbed interface; the first tab starts active.
type Tabs struct {
	ID    string
	Items []TabItem
}

// NewTabs creates a tab group.
func NewTabs(id string, items ...TabItem) *Tabs {
	return &Tabs{ID: id, Items: items}
}

// Render writes the tabs HTML.
func (t *Tabs) Render(w io.Writer) error {
	if len(t.Items) == 0 {
		return nil
	}

	type tabData struct {
		ID      string
		Label   string
		Content template.HTML
		Active  bool
	}

	items := make([]tabData, 0, len(t.Items))

	for i, item := range t.Items {
		var content template.HTML

		if item.Content != nil {
			var buf bytes.Buffer

			err := item.Content.Render(&buf)
			if err != nil {
				return fmt.Errorf("rendering tab %s: %w", item.ID, err)
			}

			content = template.HTML(buf.String())
		}

		items = append(items, tabData{
			ID:      item.ID,
			Label:   item.Label,
			Content: content,
			Active:  i == 0,
		})
	}

	data := struct {
		ID    string
		Items []tabData
	}{ID: t.ID, Items: items}

	_, err := w.Write([]byte(mustRenderTemplate("tabs.html", data)))
	if err != nil {
		return fmt.Errorf("writing tabs: %w", err)
	}

	return nil
}
