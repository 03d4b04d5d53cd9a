package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Scoreboard renders the spectator scoreboard fragment.
func Scoreboard(data ScoreboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="scoreboard" data-room="` + esc(data.RoomID) + `">`)
		b.WriteString(`<header><span class="tag">` + esc(data.RoomID) + `</span><h2>` + esc(roundLabel(data.Round)) + `</h2></header>`)
		if data.Message != "" {
			b.WriteString(`<p class="message">` + esc(data.Message) + `</p>`)
		}
		if data.Question != "" {
			b.WriteString(`<article class="question"><p>` + esc(data.Question) + `</p>`)
			if data.Code != "" {
				b.WriteString(`<pre><code>` + esc(data.Code) + `</code></pre>`)
			}
			if data.Answer != "" {
				b.WriteString(`<p class="answer">` + esc(data.Answer) + `</p>`)
			}
			b.WriteString(`</article>`)
		}
		if data.Final {
			b.WriteString(`<h3 class="final">Final standings</h3>`)
		}
		b.WriteString(`<ol class="scores">`)
		for _, row := range data.Rows {
			class := "score"
			if row.HasTurn {
				class += " turn"
			}
			if row.Buzzed {
				class += " buzzed"
			}
			b.WriteString(`<li class="` + class + `"><span class="rank">` + itoa(row.Rank) + `</span>`)
			b.WriteString(`<span class="name">` + esc(row.Name) + `</span>`)
			b.WriteString(`<span class="points">` + itoa(row.Score) + `</span></li>`)
		}
		if len(data.Rows) == 0 {
			b.WriteString(`<li class="empty">Waiting for players…</li>`)
		}
		b.WriteString(`</ol></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
