package server

// indexHTML is the embedded single-page frontend: a filter form and a live
// table fed by the /ws stream. Served as a static string, no templating.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<title>GE Tracker</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body{font-family:sans-serif;background:#0b0b0b;color:#c79a2a;margin:0}
label{font-size:12px;color:#bfb2a0;margin-bottom:6px}
input,select{padding:8px;border-radius:6px;background:#222;color:#c79a2a;border:none}
button{margin-top:8px;padding:8px;border:none;border-radius:6px;background:#333;color:#c79a2a;cursor:pointer}
table{width:100%;margin-top:12px;border-collapse:collapse}
th,td{padding:6px;border-bottom:1px solid #333}
th{color:#c79a2a}
</style>
</head>
<body>
<div style="max-width:1000px;margin:auto;padding:20px">
<h1>GE Tracker</h1>
<div style="display:flex;flex-wrap:wrap;gap:10px">
<div><label>Max price</label><input id="max_price" type="number"/></div>
<div><label>Min GP</label><input id="min_profit_gp" type="number"/></div>
<div><label>Min %</label><input id="min_profit_pct" type="number"/></div>
<div><label>Min volume</label><input id="min_volume" type="number" value="10"/></div>
<div><label>Volume mode</label><select id="volume_mode"><option value="hourly">Hourly</option><option value="daily">Daily</option></select></div>
<div><label>Sort</label><select id="sort"><option value="profit">Profit (gp)</option><option value="profit_pct">Profit %</option><option value="cost">Cost</option></select></div>
<div><label>Results</label><input id="max_results" type="number" value="30"/></div>
<div><label>Search</label><input id="search" type="text"/></div>
<div><label>Skill</label><select id="skill_filter"><option value="">All</option></select></div>
<button onclick="sendFilters()">Apply</button></div>
<div id="status">Connecting...</div>
<table>
<thead><tr><th>ID</th><th>Name</th><th>Buy</th><th>Sell</th><th>Profit</th><th>%</th><th>Volume</th></tr></thead>
<tbody id="items_body"><tr><td colspan="7">Loading...</td></tr></tbody></table></div>
<script>
fetch("/api/config").then(r => r.json()).then(cfg => {
  const sel = document.getElementById("skill_filter");
  for (const skill of cfg.skills) {
    const opt = document.createElement("option");
    opt.value = skill;
    opt.textContent = skill.charAt(0).toUpperCase() + skill.slice(1);
    sel.appendChild(opt);
  }
});
const ws = new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"/ws");
ws.onopen = () => { document.getElementById("status").textContent = "Connected"; };
ws.onclose = () => { document.getElementById("status").textContent = "Disconnected"; };
ws.onmessage = evt => {
  const data = JSON.parse(evt.data);
  if (data.type === "update") {
    const body = document.getElementById("items_body");
    body.innerHTML = "";
    for (const it of data.items) {
      const row = document.createElement("tr");
      row.innerHTML = "<td>"+it.id+"</td><td>"+it.name+"</td><td>"+it.buy+"</td><td>"+it.sell+
        "</td><td>"+it.profit+"</td><td>"+it.profit_pct.toFixed(1)+"%</td><td>"+Math.round(it.volume)+"</td>";
      body.appendChild(row);
    }
  }
};
function get(id){ return document.getElementById(id).value || null }
function sendFilters(){
  ws.send(JSON.stringify({
    type:"set_filters",
    max_price:get("max_price"),
    min_profit_gp:get("min_profit_gp"),
    min_profit_pct:get("min_profit_pct"),
    min_volume:get("min_volume"),
    sort:get("sort"),
    max_results:get("max_results"),
    search:get("search"),
    volume_mode:get("volume_mode"),
    skill:get("skill_filter")
  }))
}
setInterval(() => { if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify({type:"ping"})) }, 30000);
</script>
</body>
</html>
`
