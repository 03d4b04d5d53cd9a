package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Coding Showdown</title>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Coding Showdown</span>
        <h1>Buzz fast. Code smart. Steal the win.</h1>
        <p>Open a room for your class or join one with the code on the board.</p>
      </header>

      <section class="panel">
        <h2>Open a room</h2>
        <form id="createForm">
          <input name="code" placeholder="Room code" autocomplete="off" required/>
          <button type="submit" class="primary">Open room</button>
        </form>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <h2>Join a room</h2>
        <form id="joinForm">
          <input name="code" placeholder="Room code" autocomplete="off" required/>
          <input name="name" placeholder="Your name" autocomplete="name"/>
          <button type="submit" class="secondary">Join</button>
        </form>
        <div id="joinResult" class="result"></div>
      </section>
    </main>

    <script>
      const createForm = document.getElementById("createForm");
      const createResult = document.getElementById("createResult");
      const joinForm = document.getElementById("joinForm");
      const joinResult = document.getElementById("joinResult");

      createForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        const code = createForm.elements.code.value.trim();
        const res = await fetch("/api/rooms", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ code })
        });
        const data = await res.json();
        if (!res.ok) {
          createResult.textContent = data.error || "Failed to open room.";
          return;
        }
        createResult.textContent = (data.created ? "Room opened: " : "Room resumed: ") + data.room_id;
      });

      joinForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        const code = joinForm.elements.code.value.trim();
        const name = joinForm.elements.name.value.trim();
        const playerId = localStorage.getItem("player:" + code.toUpperCase()) || "";
        const res = await fetch("/api/rooms/" + encodeURIComponent(code) + "/join", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ player_id: playerId, name })
        });
        const data = await res.json();
        if (!res.ok) {
          joinResult.textContent = data.error || "Failed to join room.";
          return;
        }
        localStorage.setItem("player:" + data.room_id, data.player_id);
        joinResult.textContent = "Joined " + data.room_id + " as " + data.state.players.find((p) => p.id === data.player_id).name;
      });
    </script>
  </body>
</html>`)
		return err
	})
}
