package view

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{template "title" .}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<style>
:root { --bg: #0f172a; --fg: #e2e8f0; --card: #1e293b; --border: #334155; --muted: #94a3b8;
  --high: #ef4444; --medium: #eab308; --low: #22c55e; --unknown: #94a3b8; }
body.light-mode { --bg: #f8fafc; --fg: #0f172a; --card: #ffffff; --border: #cbd5e1; --muted: #64748b; }
* { box-sizing: border-box; }
body { margin: 0; padding: 1rem; font-family: Inter, -apple-system, "Segoe UI", sans-serif; background: var(--bg); color: var(--fg); }
header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 1rem; }
button { background: var(--card); color: var(--fg); border: 1px solid var(--border); border-radius: 6px; padding: .4rem .8rem; cursor: pointer; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr)); gap: .75rem; margin-bottom: 1rem; }
.card, .panel { background: var(--card); border: 1px solid var(--border); border-radius: 8px; padding: .75rem; }
.card .value { font-size: 1.6rem; font-weight: 700; }
.card .label { font-size: .75rem; color: var(--muted); text-transform: uppercase; }
.grid { display: grid; grid-template-columns: 2fr 1fr; gap: 1rem; margin-bottom: 1rem; }
@media (max-width: 900px) { .grid { grid-template-columns: 1fr; } }
#map { height: 420px; border-radius: 8px; }
table { width: 100%; border-collapse: collapse; font-size: .9rem; }
th, td { padding: .5rem; border-bottom: 1px solid var(--border); text-align: left; }
th a { color: inherit; text-decoration: none; }
.badge { border-radius: 999px; padding: .1rem .5rem; font-size: .75rem; color: #0f172a; }
.badge.high { background: var(--high); } .badge.medium { background: var(--medium); }
.badge.low { background: var(--low); } .badge.unknown { background: var(--unknown); }
.bar { height: 6px; background: var(--border); border-radius: 3px; }
.bar span { display: block; height: 6px; border-radius: 3px; }
.bar .high { background: var(--high); } .bar .medium { background: var(--medium); } .bar .low { background: var(--low); }
.section-error { color: var(--high); font-size: .8rem; }
tr[data-ward] { cursor: pointer; }
tr[data-ward]:hover { background: var(--border); }
dl.detail { display: grid; grid-template-columns: max-content 1fr; gap: .3rem 1rem; margin: 0; }
dl.detail dt { color: var(--muted); }
dl.detail dd { margin: 0; }
form label { display: block; margin: .5rem 0 .2rem; font-size: .85rem; color: var(--muted); }
form select, form input[type=text], form textarea { width: 100%; padding: .4rem; background: var(--bg); color: var(--fg); border: 1px solid var(--border); border-radius: 6px; }
.toast-container { position: fixed; top: 1rem; right: 1rem; display: flex; flex-direction: column; gap: .5rem; z-index: 2000; }
.toast { background: var(--card); border-left: 4px solid var(--low); padding: .6rem .9rem; border-radius: 6px; min-width: 240px; }
.toast.error { border-left-color: var(--high); }
.toast .title { font-weight: 600; }
</style>
</head>
<body class="{{if eq .Theme "light"}}light-mode{{end}}">
<div id="toast-container" class="toast-container"></div>
{{template "body" .}}
</body>
</html>{{end}}`

const loginHTML = `{{define "title"}}Admin Login{{end}}
{{define "body"}}
<main class="panel" style="max-width: 360px; margin: 10vh auto;">
<h2>Flood Risk Admin</h2>
<form method="post" action="/auth/login">
<label for="username">Username</label>
<input type="text" id="username" name="username" autocomplete="username" required>
<label for="password">Password</label>
<input type="password" id="password" name="password" autocomplete="current-password" required>
{{with .Error}}<p class="section-error">{{.}}</p>{{end}}
<p><button type="submit">Sign in</button></p>
</form>
</main>
{{end}}`

const dashboardHTML = `{{define "title"}}Ward Risk Dashboard{{end}}
{{define "body"}}
<header>
<h1>Ward Risk Dashboard</h1>
<div>
<span style="color: var(--muted)">{{.Username}}</span>
<button id="refresh-btn">Refresh</button>
<button id="complaints-btn">Complaints</button>
<button id="theme-btn">Theme</button>
<button id="logout-btn">Log out</button>
</div>
</header>

{{with .Snapshot}}
<section class="cards">
<div class="card"><div class="value">{{.KPIs.TotalWards}}</div><div class="label">Total Wards</div></div>
<div class="card"><div class="value" style="color: var(--high)">{{.KPIs.HighRiskCount}}</div><div class="label">High Risk</div></div>
<div class="card"><div class="value" style="color: var(--medium)">{{.KPIs.MediumRiskCount}}</div><div class="label">Medium Risk</div></div>
<div class="card"><div class="value">{{.KPIs.ActiveComplaints}}</div><div class="label">Active Complaints</div></div>
<div class="card"><div class="value">{{.KPIs.PredictedFloods}}</div><div class="label">Predicted Floods ({{.KPIs.PredictionHours}}h)</div></div>
</section>
{{range .Sections}}{{if not .OK}}<p class="section-error">{{.Name}}: {{.Error}}</p>{{end}}{{end}}
{{end}}

<section class="grid">
<div class="panel"><div id="map"></div></div>
<div class="panel">
<h3>Priority Wards</h3>
<ol id="priority">
{{range .Priority}}<li>{{.Name}} <span class="badge {{.Level.Class}}">{{.Level.Label}}</span> {{score .RiskScore}}</li>
{{else}}<li>No wards</li>{{end}}
</ol>
</div>
</section>

<section class="panel">
<table id="ward-table">
<thead><tr>
{{$sort := .Sort}}{{range columns}}<th><a href="{{sortLink $sort .Key}}">{{.Title}} {{sortMark $sort .Key}}</a></th>{{end}}
</tr></thead>
<tbody>
{{range .Rows}}<tr data-ward="{{.ID}}">
<td>{{.Name}}</td>
<td>{{.Zone}}</td>
<td>{{score .RiskScore}}</td>
<td><span class="badge {{.Level.Class}}">{{.Level.Label}}</span></td>
<td>{{pct .DrainageCapacity}}<div class="bar"><span class="{{.Drainage.Class}}" style="width: {{pct .DrainageCapacity}}"></span></div></td>
<td>{{.ActiveComplaints}}</td>
</tr>
{{else}}<tr><td colspan="6">No wards loaded</td></tr>{{end}}
</tbody>
</table>
</section>

<section id="ward-detail" class="panel" style="margin-top: 1rem;" hidden>
<h3 id="detail-name"></h3>
<dl class="detail">
<dt>Ward ID</dt><dd id="detail-id"></dd>
<dt>Zone</dt><dd id="detail-zone"></dd>
<dt>Risk Score</dt><dd id="detail-score"></dd>
<dt>Risk Level</dt><dd><span id="detail-level" class="badge"></span></dd>
<dt>Drainage</dt><dd><span id="detail-drainage"></span><div class="bar"><span id="detail-drainage-bar"></span></div></dd>
<dt>Active Complaints</dt><dd id="detail-complaints"></dd>
</dl>
</section>

<section id="complaints-panel" class="panel" style="margin-top: 1rem;" hidden>
<h3>Citizen Complaints</h3>
<table id="complaints-table">
<thead><tr><th>Ward</th><th>Severity</th><th>Description</th><th>Image</th><th>Reported</th></tr></thead>
<tbody></tbody>
</table>
</section>

<section class="grid" style="margin-top: 1rem;">
<form id="drainage-form" class="panel">
<h3>Update Drainage</h3>
<label for="drainage-ward">Ward</label>
<select id="drainage-ward"><option value="">Select a ward</option>{{range .Options}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select>
<label for="drainage-slider">Capacity <span id="drainage-value">50%</span></label>
<input type="range" id="drainage-slider" min="0" max="100" value="50">
<label><input type="checkbox" id="drainage-cleaned"> Drain cleaned</label>
<p><button type="submit" id="drainage-submit">Update Drainage Status</button></p>
</form>
<form id="complaint-form" class="panel">
<h3>Report Complaint</h3>
<label for="complaint-ward">Ward</label>
<select id="complaint-ward"><option value="">Select a ward</option>{{range .Options}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select>
<label>Severity</label>
<label><input type="radio" name="severity" value="Low"> Low</label>
<label><input type="radio" name="severity" value="Medium"> Medium</label>
<label><input type="radio" name="severity" value="High"> High</label>
<label for="complaint-description">Description</label>
<textarea id="complaint-description" rows="3"></textarea>
<label for="complaint-image">Image URL</label>
<input type="text" id="complaint-image">
<p><button type="submit" id="complaint-submit">Submit Complaint</button></p>
</form>
</section>

<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script>
const markers = {{json .Markers}};
const theme = {{.Theme}};

function showToast(n) {
  const c = document.getElementById('toast-container');
  const t = document.createElement('div');
  t.className = 'toast ' + n.kind;
  const title = document.createElement('div');
  title.className = 'title';
  title.textContent = n.title;
  const msg = document.createElement('div');
  msg.textContent = n.message;
  t.append(title, msg);
  c.appendChild(t);
  setTimeout(() => t.remove(), n.ttlMs || 3000);
}

(function connect() {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/api/notifications/ws');
  ws.onmessage = (e) => showToast(JSON.parse(e.data));
  ws.onclose = () => setTimeout(connect, 3000);
})();

const map = L.map('map').setView([28.6139, 77.209], 11);
L.tileLayer('https://{s}.basemaps.cartocdn.com/' + (theme === 'light' ? 'light_all' : 'dark_all') + '/{z}/{x}/{y}{r}.png').addTo(map);
const bounds = [];
markers.features.forEach((f) => {
  const p = f.properties;
  const ll = [f.geometry.coordinates[1], f.geometry.coordinates[0]];
  bounds.push(ll);
  if (p.pulseRadius) {
    L.circleMarker(ll, {radius: p.pulseRadius, color: p.color, fillColor: p.color, weight: 1, opacity: 0.3, fillOpacity: 0.2}).addTo(map);
  }
  const m = L.circleMarker(ll, {radius: p.radius, color: p.color, fillColor: p.color, weight: 2, opacity: 0.9, fillOpacity: 0.7}).addTo(map);
  const popup = document.createElement('div');
  popup.innerText = p.name + ' (' + p.zone + ')\nRisk: ' + p.riskScore.toFixed(1) + ' ' + p.riskLevel +
    '\nDrainage: ' + p.drainageCapacity + '%\nRainfall: ' + p.rainfall + ' mm';
  m.bindPopup(popup);
});
if (bounds.length) { map.fitBounds(bounds, {padding: [20, 20]}); }

async function post(url, body, method) {
  const res = await fetch(url, {method: method || 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify(body || {})});
  return res.ok;
}

const slider = document.getElementById('drainage-slider');
const cleaned = document.getElementById('drainage-cleaned');
slider.addEventListener('input', () => { document.getElementById('drainage-value').textContent = slider.value + '%'; });
cleaned.addEventListener('change', () => {
  if (cleaned.checked) { slider.value = 100; slider.dispatchEvent(new Event('input')); }
});

document.getElementById('drainage-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const btn = document.getElementById('drainage-submit');
  btn.disabled = true;
  try {
    const ok = await post('/api/dashboard/drainage', {
      wardId: document.getElementById('drainage-ward').value,
      drainageCapacity: parseInt(slider.value, 10),
      isCleaned: cleaned.checked,
    });
    if (ok) { setTimeout(() => location.reload(), 800); }
  } finally { btn.disabled = false; }
});

document.getElementById('complaint-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const btn = document.getElementById('complaint-submit');
  const sev = document.querySelector('input[name="severity"]:checked');
  btn.disabled = true;
  try {
    const ok = await post('/api/dashboard/complaints', {
      wardId: document.getElementById('complaint-ward').value,
      severity: sev ? sev.value : '',
      description: document.getElementById('complaint-description').value,
      imageUrl: document.getElementById('complaint-image').value,
    });
    if (ok) { e.target.reset(); setTimeout(() => location.reload(), 800); }
  } finally { btn.disabled = false; }
});

const levelLabels = {high: 'High', medium: 'Medium', low: 'Low'};

document.querySelectorAll('tr[data-ward]').forEach((row) => {
  row.addEventListener('click', async () => {
    const res = await fetch('/api/dashboard/wards/' + encodeURIComponent(row.dataset.ward));
    if (!res.ok) {
      showToast({kind: 'error', title: 'Error', message: 'Could not load ward details'});
      return;
    }
    const w = await res.json();
    document.getElementById('detail-name').textContent = w.name;
    document.getElementById('detail-id').textContent = w.id;
    document.getElementById('detail-zone').textContent = w.zone;
    document.getElementById('detail-score').textContent = w.riskScore.toFixed(1);
    const level = document.getElementById('detail-level');
    level.className = 'badge ' + (w.level || 'unknown');
    level.textContent = levelLabels[w.level] || 'Unknown';
    document.getElementById('detail-drainage').textContent = w.drainageCapacity + '%';
    const bar = document.getElementById('detail-drainage-bar');
    bar.className = w.drainageBand || 'unknown';
    bar.style.width = w.drainageCapacity + '%';
    document.getElementById('detail-complaints').textContent = w.activeComplaints;
    const panel = document.getElementById('ward-detail');
    panel.hidden = false;
    panel.scrollIntoView({behavior: 'smooth'});
  });
});

const wardNames = {};
document.querySelectorAll('#complaint-ward option').forEach((o) => { if (o.value) { wardNames[o.value] = o.textContent; } });

function cell(text) {
  const td = document.createElement('td');
  td.textContent = text;
  return td;
}

async function loadComplaints() {
  const res = await fetch('/api/dashboard/complaints', {cache: 'no-store'});
  if (!res.ok) { return; }
  const body = await res.json();
  const tbody = document.querySelector('#complaints-table tbody');
  tbody.replaceChildren();
  if (!body.complaints || body.complaints.length === 0) {
    const tr = document.createElement('tr');
    const td = cell('No complaints');
    td.colSpan = 5;
    tr.appendChild(td);
    tbody.appendChild(tr);
    return;
  }
  body.complaints.forEach((c) => {
    const tr = document.createElement('tr');
    tr.appendChild(cell(wardNames[c.wardId] || c.wardId));
    tr.appendChild(cell(c.severity));
    tr.appendChild(cell(c.description || ''));
    const img = document.createElement('td');
    if (c.imageUrl) {
      const a = document.createElement('a');
      a.href = c.imageUrl;
      a.target = '_blank';
      a.rel = 'noopener';
      a.textContent = 'View';
      img.appendChild(a);
    }
    tr.appendChild(img);
    const ts = new Date(c.timestamp);
    tr.appendChild(cell(isNaN(ts) || ts.getFullYear() < 2 ? '' : ts.toLocaleString()));
    tbody.appendChild(tr);
  });
}

document.getElementById('complaints-btn').addEventListener('click', async () => {
  const panel = document.getElementById('complaints-panel');
  panel.hidden = !panel.hidden;
  if (!panel.hidden) {
    await loadComplaints();
    panel.scrollIntoView({behavior: 'smooth'});
  }
});

document.getElementById('refresh-btn').addEventListener('click', async () => {
  await post('/api/dashboard/refresh');
  location.reload();
});
document.getElementById('theme-btn').addEventListener('click', async () => {
  const next = document.body.classList.contains('light-mode') ? 'dark' : 'light';
  if (await post('/api/preferences/theme', {theme: next}, 'PUT')) { location.reload(); }
});
document.getElementById('logout-btn').addEventListener('click', async () => {
  await post('/auth/logout');
  location.href = '/login';
});
</script>
{{end}}`
