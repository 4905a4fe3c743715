package components

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
)

// DocView is a scrollable markdown document. The markdown is rendered
// lazily for the width it is viewed at.
type DocView struct {
	vp       viewport.Model
	markdown string
	width    int
	dirty    bool
}

// NewDocView creates an empty document view.
func NewDocView() DocView {
	return DocView{vp: viewport.New()}
}

// SetMarkdown replaces the document and scrolls to the top.
func (d *DocView) SetMarkdown(md string) {
	d.markdown = md
	d.dirty = true
	d.vp.GotoTop()
}

// Markdown returns the current document source.
func (d DocView) Markdown() string {
	return d.markdown
}

// Update handles scrolling keys.
func (d DocView) Update(msg tea.Msg) (DocView, tea.Cmd) {
	var cmd tea.Cmd
	d.vp, cmd = d.vp.Update(msg)
	return d, cmd
}

// View renders the visible part of the document in a width x height box.
func (d *DocView) View(width, height int) string {
	if width != d.width || d.dirty {
		d.width = width
		d.dirty = false
		d.vp.SetWidth(width)
		d.vp.SetContent(RenderMarkdown(d.markdown, width))
	}
	d.vp.SetHeight(height)
	return d.vp.View()
}
