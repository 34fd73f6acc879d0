package site

// pageTemplate is the html/template for each documentation page. The TOC
// builder later appends the table of contents to the aside.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.ProjectName}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body data-page="{{.PagePath}}" data-scroll-offset="{{.ScrollOffset}}" data-click-offset="{{.ClickOffset}}" data-delay="{{.Delay}}" data-initial-delay="{{.InitialDelay}}">
  <nav class="sidebar" id="sidebar">
    <div class="sidebar-header">
      <h2 class="project-title">{{.ProjectName}}</h2>
      <input type="text" id="search-input" placeholder="Filter pages..." autocomplete="off">
    </div>
    <div class="sidebar-tree" id="sidebar-tree">
      {{.TreeHTML}}
    </div>
  </nav>
  <main class="content">
    <article class="page-content">
      {{.Content}}
    </article>
  </main>
  <aside class="toc-sidebar" id="{{.SidebarID}}"></aside>
  <script src="{{.BasePath}}toc.js"></script>
</body>
</html>`

// cssContent styles the three-column layout and the TOC block.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-sidebar: #f1f3f5;
  --text: #1f2328;
  --muted: #656d76;
  --accent: #0969da;
  --border: #d0d7de;
  --sidebar-width: 280px;
  --toc-width: 240px;
}

* { box-sizing: border-box; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.6;
}

.sidebar {
  position: fixed;
  top: 0; bottom: 0; left: 0;
  width: var(--sidebar-width);
  overflow-y: auto;
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  padding: 16px;
}

.sidebar-header input {
  width: 100%;
  padding: 6px 8px;
  border: 1px solid var(--border);
  border-radius: 6px;
}

.sidebar-tree ul { list-style: none; margin: 0; padding-left: 12px; }
.sidebar-tree .dir > ul { display: none; }
.sidebar-tree .dir.expanded > ul { display: block; }
.sidebar-tree .dir-toggle { cursor: pointer; font-weight: 600; }
.sidebar-tree a { color: var(--text); text-decoration: none; }
.sidebar-tree a.active { color: var(--accent); font-weight: 600; }
.sidebar-tree .hidden { display: none; }

.content {
  margin-left: var(--sidebar-width);
  margin-right: var(--toc-width);
  padding: 32px 48px;
  max-width: 960px;
}

.toc-sidebar {
  position: fixed;
  top: 0; right: 0; bottom: 0;
  width: var(--toc-width);
  overflow-y: auto;
  padding: 24px 16px;
  border-left: 1px solid var(--border);
}

.toc-container h3 {
  margin: 0 0 8px;
  font-size: 13px;
  text-transform: uppercase;
  color: var(--muted);
}

.toc { list-style: none; margin: 0; padding: 0; font-size: 14px; }
.toc a { display: block; padding: 2px 0; color: var(--muted); text-decoration: none; border-left: 2px solid transparent; padding-left: 8px; }
.toc a:hover { color: var(--text); }
.toc a.active { color: var(--accent); border-left-color: var(--accent); }
.toc-level1 { padding-left: 0; }
.toc-level2 { padding-left: 12px; }
.toc-level3 { padding-left: 24px; }
.toc-level4 { padding-left: 36px; }

@media (max-width: 1100px) {
  .toc-sidebar { display: none; }
  .content { margin-right: 0; }
}
`

// jsContent is the page half of the scroll tracker. It measures the heading
// behind each TOC link by its data-toc-index, streams scroll and click events
// to /ws/track and applies the active marks and scroll requests it receives.
// When the socket is unavailable the same rules run in the page, using the
// offsets and delays carried on <body>.
const jsContent = `(function() {
  "use strict";

  // ===== Sidebar page filter =====
  var filter = document.getElementById("search-input");
  var tree = document.getElementById("sidebar-tree");
  if (filter && tree) {
    filter.addEventListener("input", function() {
      var q = this.value.toLowerCase().trim();
      tree.querySelectorAll("li.file").forEach(function(li) {
        var hit = q === "" || li.textContent.toLowerCase().indexOf(q) !== -1;
        li.classList.toggle("hidden", !hit);
      });
    });
  }
  document.querySelectorAll(".dir-toggle").forEach(function(t) {
    t.addEventListener("click", function() { this.parentElement.classList.toggle("expanded"); });
  });

  // ===== TOC tracker =====
  var links = Array.prototype.slice.call(document.querySelectorAll(".toc a"));
  if (links.length === 0) return;

  var body = document.body;
  function setting(name, fallback) {
    var v = parseFloat(body.getAttribute(name));
    return isNaN(v) ? fallback : v;
  }
  var scrollOffset = setting("data-scroll-offset", 150);
  var clickOffset = setting("data-click-offset", 100);
  var delay = setting("data-delay", 100);
  var initialDelay = setting("data-initial-delay", 100);

  function linkID(link) {
    return link.getAttribute("href").substring(1);
  }

  function measure() {
    return links.map(function(link, index) {
      var id = linkID(link);
      var el = document.querySelector('[data-toc-index="' + index + '"]');
      if (!el && id) el = document.getElementById(id);
      var top = el ? el.getBoundingClientRect().top + window.pageYOffset : 1e15;
      return { id: id, top: top };
    });
  }

  var active = -1;
  function mark(index) {
    active = index;
    links.forEach(function(l) { l.classList.remove("active"); });
    if (links[index]) links[index].classList.add("active");
  }

  // In-page tracker, used when the server channel is unavailable.
  var local = false;
  var timer = null;

  function localUpdate() {
    var threshold = window.pageYOffset + scrollOffset;
    var index = -1;
    measure().forEach(function(a, i) {
      if (a.top <= threshold) index = i;
    });
    if (index >= 0 && index !== active) mark(index);
  }

  function localClick(index) {
    var id = linkID(links[index]);
    if (!id) return;
    var anchors = measure();
    for (var i = 0; i < anchors.length; i++) {
      if (anchors[i].id === id && anchors[i].top < 1e15) {
        window.scrollTo({ top: anchors[i].top - clickOffset, behavior: "smooth" });
        mark(index);
        return;
      }
    }
  }

  function startLocal() {
    if (local) return;
    local = true;
    ready = false;
    setTimeout(localUpdate, initialDelay);
  }

  // Server tracker.
  var ws = null;
  var ready = false;

  function send(msg) {
    if (ready) ws.send(JSON.stringify(msg));
  }

  if (!window.WebSocket || location.protocol === "file:") {
    startLocal();
  } else {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var page = body.getAttribute("data-page") || location.pathname;
    try {
      ws = new WebSocket(proto + location.host + "/ws/track?page=" + encodeURIComponent(page));
    } catch (e) {
      startLocal();
    }
  }

  if (ws) {
    ws.addEventListener("open", function() {
      if (local) return;
      ready = true;
      send({ type: "layout", anchors: measure(), y: window.pageYOffset });
    });
    ws.addEventListener("error", startLocal);
    ws.addEventListener("close", startLocal);

    ws.addEventListener("message", function(ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "active") {
        mark(msg.index);
      } else if (msg.type === "scroll_to") {
        window.scrollTo({ top: msg.top, behavior: msg.behavior || "auto" });
      }
    });
  }

  links.forEach(function(link, index) {
    link.addEventListener("click", function(e) {
      if (local) {
        e.preventDefault();
        localClick(index);
      } else if (ready) {
        e.preventDefault();
        send({ type: "click", index: index });
      }
    });
  });

  var pending = false;
  window.addEventListener("scroll", function() {
    if (local) {
      clearTimeout(timer);
      timer = setTimeout(localUpdate, delay);
      return;
    }
    if (pending) return;
    pending = true;
    window.requestAnimationFrame(function() {
      pending = false;
      send({ type: "scroll", y: window.pageYOffset });
    });
  });

  window.addEventListener("resize", function() {
    send({ type: "layout", anchors: measure(), y: window.pageYOffset });
  });
})();
`
