// Package plotpage renders themed HTML dashboard pages that combine echarts
// charts, inline SVG, stat grids, and tables into titled sections.
package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// styleTagLen is len("</style>").
const styleTagLen = 8

// Renderable is the interface for chart and component fragments.
type Renderable interface {
	Render(w io.Writer) error
}

// Hint carries interpretive guidance displayed under a section.
type Hint struct {
	Title string
	Items []string
}

// Section is one titled block of a page.
type Section struct {
	Title    string
	Subtitle string
	Hint     Hint
	Chart    Renderable
}

// Page is a complete dashboard page.
type Page struct {
	Title           string
	Description     string
	ProjectName     string
	ProjectSubtitle string
	Theme           Theme
	Sections        []Section
}

// NewPage creates a page with sizescope branding and the dark theme.
func NewPage(title, description string) *Page {
	return &Page{
		Title:           title,
		Description:     description,
		ProjectName:     "sizescope",
		ProjectSubtitle: "Build Artifact Sizes",
		Theme:           ThemeDark,
	}
}

// WithTheme sets the page theme.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	theme := GetThemeConfig(p.Theme)

	header, err := renderTemplate("header.html", headerData{
		ProjectName: p.ProjectName,
		Subtitle:    p.ProjectSubtitle,
		Title:       p.Title,
		Description: p.Description,
	})
	if err != nil {
		return fmt.Errorf("render header: %w", err)
	}

	var sectionsHTML bytes.Buffer

	for _, section := range p.Sections {
		sectionHTML, sectionErr := renderSection(section)
		if sectionErr != nil {
			return fmt.Errorf("render section: %w", sectionErr)
		}

		sectionsHTML.WriteString(string(sectionHTML))
	}

	html, err := renderTemplate("page.html", pageData{
		Title:       p.Title,
		ProjectName: p.ProjectName,
		Theme:       theme,
		Header:      header,
		Content:     template.HTML(sectionsHTML.String()),
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	_, err = w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

type headerData struct {
	ProjectName string
	Subtitle    string
	Title       string
	Description string
}

type pageData struct {
	Title       string
	ProjectName string
	Theme       ThemeConfig
	Header      template.HTML
	Content     template.HTML
}

type sectionData struct {
	Title    string
	Subtitle string
	Chart    template.HTML
	Hint     *hintData
}

type hintData struct {
	Title string
	Items []string
}

func renderSection(section Section) (template.HTML, error) {
	data := sectionData{
		Title:    section.Title,
		Subtitle: section.Subtitle,
		Chart:    template.HTML(renderChart(section.Chart)),
	}

	if len(section.Hint.Items) > 0 {
		data.Hint = &hintData{Title: section.Hint.Title, Items: section.Hint.Items}
	}

	return renderTemplate("section.html", data)
}

func renderChart(chart Renderable) string {
	if chart == nil {
		return ""
	}

	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return ""
	}

	return extractChartContent(buf.String())
}

// extractChartContent strips the full-page scaffolding echarts emits, keeping
// only the chart container and its script. Component fragments pass through.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			break
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			break
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}

	return content
}
