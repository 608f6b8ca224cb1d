package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/blink-sensor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"colorOr": func(c, fallback string) string {
		if c == "" {
			return fallback
		}
		return c
	},
	"seconds": func(d time.Duration) string {
		return fmt.Sprintf("%.1fs", d.Seconds())
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Remember to Blink</title>
<style>
body { font-family: monospace; margin: 0; padding: 2em 1em; min-height: 100vh; box-sizing: border-box; }
main { max-width: 600px; margin: 0 auto; }
h1 { font-size: 1.4em; }
#banner { font-size: 4em; font-weight: bold; text-align: center; min-height: 1.3em; margin: 0.5em 0; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid currentColor; }
th { width: 40%; }
a { color: inherit; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body id="page" style="background: {{colorOr .Appearance.Background "#000000"}}; color: {{colorOr .Appearance.Foreground "#ffffff"}};">
<main>
<h1>Remember to Blink{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<div id="banner">{{.Appearance.Status}}</div>

<h2>Headband</h2>
<table>
<tr><th>State</th><td id="state">{{.View.State}}</td></tr>
<tr><th>Phase</th><td id="phase">{{.View.Phase}}</td></tr>
<tr><th>Since last blink</th><td id="elapsed">{{seconds .View.Elapsed}}</td></tr>
<tr><th>Last blink</th><td>{{if .View.LastBlink.IsZero}}never{{else}}{{.View.LastBlink.UTC.Format "2006-01-02T15:04:05Z"}}{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td>{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Blinks</th><td>{{.View.Counts.Blinks}}</td></tr>
<tr><th>Alert ticks</th><td>{{.View.Counts.Alerts}}</td></tr>
<tr><th>Connects</th><td>{{.View.Counts.Connects}}</td></tr>
<tr><th>Disconnects</th><td>{{.View.Counts.Disconnects}}</td></tr>
<tr><th>Foregrounds</th><td>{{.View.Counts.Foregrounds}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Threshold</th><td>{{.Config.ThresholdMs}}ms</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</main>
<script>
(function() {
  var page = document.getElementById("page");
  var banner = document.getElementById("banner");
  var stateEl = document.getElementById("state");
  var phaseEl = document.getElementById("phase");
  var elapsedEl = document.getElementById("elapsed");

  function refresh() {
    fetch("/index.json").then(function(r) { return r.json(); }).then(function(j) {
      var s = j.status;
      page.style.background = s.appearance.background || "#000000";
      page.style.color = s.appearance.foreground || "#ffffff";
      banner.textContent = s.appearance.status;
      stateEl.textContent = s.state;
      phaseEl.textContent = s.phase;
      elapsedEl.textContent = (s.elapsed_ms / 1000).toFixed(1) + "s";
    }).catch(function() {});
  }

  function foreground() {
    if (document.visibilityState === "visible") {
      fetch("/foreground", { method: "POST" }).catch(function() {});
    }
  }

  document.addEventListener("visibilitychange", foreground);
  setInterval(refresh, 200);
})();
</script>
{{if .Config.WSBroker}}
<script src="https://unpkg.com/mqtt/dist/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "health/blink/sensor/events";
  var dot = document.getElementById("live-dot");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (msg.blink) {
        setDot("ok", "last event: " + msg.blink.event);
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
