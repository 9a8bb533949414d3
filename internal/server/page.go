package server

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/chitchat/emojikit/internal/picker"
	"github.com/chitchat/emojikit/internal/rows"
)

// demoPage renders the picker demo shell: the current row sequence plus a
// small script that re-renders from the WebSocket stream.
func demoPage(session *picker.Session) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}
		if err := rowList(session).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, pageFoot)
		return err
	})
}

// rowList renders the current rows as static markup.
func rowList(session *picker.Session) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, row := range session.Rows() {
			switch row.Kind {
			case rows.KindCategory:
				label := html.EscapeString(session.Translate(row.Label))
				if _, err := fmt.Fprintf(w,
					`<div class="row header" data-category=%q>%s</div>`,
					html.EscapeString(string(row.Category)), label); err != nil {
					return err
				}
			case rows.KindEmoji:
				if _, err := io.WriteString(w, `<div class="row emojis">`); err != nil {
					return err
				}
				for _, e := range row.Emojis {
					if _, err := fmt.Fprintf(w,
						`<button class="emoji" data-id=%q title=%q>%s</button>`,
						html.EscapeString(e.ID), html.EscapeString(e.Name),
						html.EscapeString(e.Value)); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, `</div>`); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

const pageHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>emojikit demo</title>
<style>
body { font-family: sans-serif; max-width: 420px; margin: 2rem auto; }
.row.header { font-weight: bold; margin-top: 0.75rem; }
.row.emojis { display: flex; gap: 0.25rem; }
.emoji { font-size: 1.4rem; border: none; background: none; cursor: pointer; }
#search { width: 100%; box-sizing: border-box; padding: 0.4rem; }
</style>
</head>
<body>
<input id="search" placeholder="Search emojis" autocomplete="off">
<div id="rows">`

const pageFoot = `</div>
<script>
const rowsEl = document.getElementById('rows');
const render = (payload) => {
  rowsEl.innerHTML = '';
  for (const row of payload.rows) {
    const div = document.createElement('div');
    if (row.type === 'category') {
      div.className = 'row header';
      div.textContent = row.label;
    } else {
      div.className = 'row emojis';
      for (const e of row.emojis || []) {
        const btn = document.createElement('button');
        btn.className = 'emoji';
        btn.textContent = e.value;
        btn.title = e.name;
        btn.onclick = () => fetch('/api/select?id=' + encodeURIComponent(e.id), {method: 'POST'});
        div.appendChild(btn);
      }
    }
    rowsEl.appendChild(div);
  }
};
const ws = new WebSocket('ws://' + location.host + '/ws');
ws.onmessage = (evt) => render(JSON.parse(evt.data));
document.getElementById('search').addEventListener('input', (evt) => {
  fetch('/api/search?q=' + encodeURIComponent(evt.target.value));
});
</script>
</body>
</html>`
