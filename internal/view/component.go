package view

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// DialogComponent renders the attendance dialog as an HTML fragment. A
// closed dialog renders nothing.
func DialogComponent(v DialogView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !v.Open {
			return nil
		}
		h := &htmlWriter{w: w}
		h.raw(`<section class="attendance-dialog" role="dialog" aria-labelledby="attendance-dialog-title" data-state="`)
		h.text(string(v.State))
		h.raw(`"><header><h2 id="attendance-dialog-title">`)
		h.text(v.Title)
		h.raw(`</h2><p class="attendance-dialog__description">`)
		h.text(v.Description)
		h.raw(`</p></header><div class="attendance-dialog__list">`)

		if v.State == StatePopulated {
			h.raw(`<ul>`)
			for _, row := range v.Rows {
				writeRow(h, row)
			}
			h.raw(`</ul>`)
		} else {
			h.raw(`<div class="attendance-dialog__placeholder">`)
			h.text(v.Placeholder)
			h.raw(`</div>`)
		}

		h.raw(`</div><footer class="attendance-dialog__footer" data-total="`)
		h.raw(strconv.Itoa(v.Total))
		h.raw(`">`)
		h.text(v.Footer)
		h.raw(`</footer></section>`)
		return h.err
	})
}

func writeRow(h *htmlWriter, row RowView) {
	h.raw(`<li class="attendance-row" data-record-id="`)
	h.text(row.ID)
	h.raw(`"><span class="attendance-row__avatar">`)
	h.text(row.Initials)
	h.raw(`</span><div class="attendance-row__body"><div class="attendance-row__name">`)
	h.text(row.FullName)
	h.raw(`</div><div class="attendance-row__meta">`)
	h.text(row.Subtitle)
	h.raw(`</div></div><div class="attendance-row__status"><span>`)
	h.text(row.Status)
	h.raw(`</span><time datetime="`)
	h.text(row.MarkedAt)
	h.raw(`">`)
	h.text(row.MarkedAtLabel)
	h.raw(`</time></div></li>`)
}
