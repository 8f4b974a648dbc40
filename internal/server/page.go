// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

// indexHTML is the whole web surface: one goal form, a live progress log
// fed by the websocket run stream, and the rendered report. Viewers load
// in iframes from /viewer/ so a heavy 3-D canvas never blocks the page.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Materials Predictor</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #0e1117; color: #e6edf3; }
  .wrap { max-width: 1100px; margin: 0 auto; padding: 32px 20px; }
  h1 { font-size: 28px; margin-bottom: 8px; }
  h2 { font-size: 18px; margin: 28px 0 12px; color: #00c3ff; }
  .hint { color: #b0b8c1; margin-bottom: 24px; }
  form { display: flex; gap: 12px; }
  input[type=text] { flex: 1; padding: 10px 14px; border-radius: 6px; border: 1px solid #23272f; background: #181c24; color: #e6edf3; font-size: 15px; }
  input[type=text]:focus { outline: none; border-color: #00c3ff; }
  button { background: #00c3ff; color: #001218; border: none; padding: 10px 20px; border-radius: 6px; font-weight: 600; font-size: 15px; cursor: pointer; }
  button:disabled { background: #555; color: #999; cursor: not-allowed; }
  #progress { margin-top: 20px; font-family: 'Menlo', 'Monaco', monospace; font-size: 13px; }
  #progress div { padding: 2px 0; color: #8b949e; }
  #progress div.warning { color: #e3b341; }
  #progress div.error { color: #f85149; }
  .columns { display: flex; gap: 24px; flex-wrap: wrap; }
  .col { flex: 1; min-width: 260px; background: #181c24; border: 1px solid #23272f; border-radius: 12px; padding: 14px; }
  .col h3 { font-size: 14px; margin-bottom: 8px; color: #b0b8c1; }
  .chip { display: inline-block; background: #0f2a36; color: #00c3ff; border-radius: 999px; padding: 4px 12px; margin: 3px; font-size: 13px; }
  table { border-collapse: collapse; width: 100%; background: #181c24; border-radius: 12px; overflow: hidden; }
  th, td { padding: 10px 14px; text-align: left; border-bottom: 1px solid #23272f; font-size: 14px; }
  th { color: #b0b8c1; font-weight: 600; background: #11151c; }
  .cards { display: flex; gap: 20px; flex-wrap: wrap; }
  .card { background: #181c24; border: 1px solid #23272f; border-radius: 12px; padding: 10px; text-align: center; }
  .card .name { font-weight: 700; color: #00c3ff; font-size: 16px; }
  .card .meta { font-size: 12px; color: #b0b8c1; margin: 4px 0 8px; }
  .card iframe { width: 520px; height: 560px; max-width: 100%; border: none; border-radius: 8px; background: #fff; }
  a.button { display: inline-block; text-decoration: none; background: #00c3ff; color: #001218; padding: 8px 12px; border-radius: 6px; font-weight: 600; margin-top: 14px; }
  .hidden { display: none; }
</style>
</head>
<body>
<div class="wrap">
  <h1>🔬 Materials Predictor</h1>
  <p class="hint">Enter requirements to be present in the material and let AI suggest candidates from the Materials Project database.</p>

  <form id="goal-form">
    <input type="text" id="goal" placeholder="e.g., transparent conductor, battery cathode" autocomplete="off">
    <button type="submit" id="run-btn">Find Best Material</button>
  </form>

  <div id="progress"></div>

  <div id="results" class="hidden">
    <h2>🤖 Suggested Formulas</h2>
    <div class="columns" id="suggestions"></div>

    <h2>✅ High-Compliance Materials</h2>
    <div id="consensus"></div>

    <h2 id="ranked-head">🎯 Top Candidates Found</h2>
    <div id="table-wrap"></div>
    <a id="csv-link" class="button hidden">Download table CSV</a>

    <h2>🔍 Structure Viewers</h2>
    <div class="cards" id="viewers"></div>
  </div>
</div>

<script>
(function () {
  var form = document.getElementById('goal-form');
  var goalInput = document.getElementById('goal');
  var runBtn = document.getElementById('run-btn');
  var progress = document.getElementById('progress');
  var results = document.getElementById('results');

  form.addEventListener('submit', function (e) {
    e.preventDefault();
    var goal = goalInput.value.trim();
    if (!goal) {
      logLine('⚠️ Please enter a valid materials design goal.', 'warning');
      return;
    }
    startRun(goal);
  });

  function startRun(goal) {
    progress.innerHTML = '';
    results.classList.add('hidden');
    runBtn.disabled = true;

    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    var ws = new WebSocket(proto + location.host + '/ws/run');
    ws.onopen = function () { ws.send(JSON.stringify({goal: goal})); };
    ws.onmessage = function (msg) {
      var frame = JSON.parse(msg.data);
      if (frame.type === 'event') {
        logLine('[' + frame.event.stage + '] ' + frame.event.message, frame.event.level);
      } else if (frame.type === 'report') {
        showReport(frame.report);
      } else if (frame.type === 'error') {
        logLine(frame.error, 'error');
      }
    };
    ws.onerror = function () { logLine('connection failed', 'error'); };
    ws.onclose = function () { runBtn.disabled = false; };
  }

  function logLine(text, level) {
    var div = document.createElement('div');
    div.textContent = text;
    if (level === 'warning' || level === 'error') div.className = level;
    progress.appendChild(div);
  }

  function fmt(v) { return (v == null ? 0 : v).toFixed(3); }

  function showReport(r) {
    renderSuggestions(r.suggestions || []);
    renderConsensus(r.consensus || []);
    renderRanked(r.ranked || []);
    results.classList.remove('hidden');
  }

  function renderSuggestions(suggestions) {
    var wrap = document.getElementById('suggestions');
    wrap.innerHTML = '';
    suggestions.forEach(function (pl) {
      var col = document.createElement('div');
      col.className = 'col';
      var h = document.createElement('h3');
      h.textContent = pl.provider + ' suggestions';
      col.appendChild(h);
      var body = document.createElement('div');
      body.textContent = (pl.formulas || []).join(', ') || '(none)';
      col.appendChild(body);
      wrap.appendChild(col);
    });
  }

  function renderConsensus(consensus) {
    var wrap = document.getElementById('consensus');
    wrap.innerHTML = '';
    if (!consensus.length) {
      wrap.textContent = 'No materials passed both evaluations.';
      return;
    }
    consensus.forEach(function (f) {
      var chip = document.createElement('span');
      chip.className = 'chip';
      chip.textContent = f;
      wrap.appendChild(chip);
    });
  }

  function renderRanked(ranked) {
    var head = document.getElementById('ranked-head');
    var tableWrap = document.getElementById('table-wrap');
    var csvLink = document.getElementById('csv-link');
    var viewers = document.getElementById('viewers');
    tableWrap.innerHTML = '';
    viewers.innerHTML = '';

    if (!ranked.length) {
      head.textContent = '🎯 Top Candidates Found';
      tableWrap.textContent = 'No suitable material found.';
      csvLink.classList.add('hidden');
      return;
    }
    head.textContent = '🎯 Top ' + ranked.length + ' Candidates Found';

    var cols = ['#', 'Formula', 'MP ID', 'Formation Energy (eV/atom)', 'Band Gap (eV)', 'Density (g/cm³)'];
    var rows = ranked.map(function (c) {
      var rec = c.record || {};
      return [c.rank, rec.formula_pretty || c.formula, rec.material_id || 'N/A',
              fmt(rec.formation_energy_per_atom), fmt(rec.band_gap), fmt(rec.density)];
    });

    var table = document.createElement('table');
    var tr = document.createElement('tr');
    cols.forEach(function (c) {
      var th = document.createElement('th');
      th.textContent = c;
      tr.appendChild(th);
    });
    table.appendChild(tr);
    rows.forEach(function (row) {
      var tr = document.createElement('tr');
      row.forEach(function (cell) {
        var td = document.createElement('td');
        td.textContent = cell;
        tr.appendChild(td);
      });
      table.appendChild(tr);
    });
    tableWrap.appendChild(table);

    var csv = [cols.join(',')].concat(rows.map(function (row) { return row.join(','); })).join('\n');
    csvLink.href = 'data:text/csv;base64,' + btoa(unescape(encodeURIComponent(csv)));
    csvLink.download = 'top3_materials.csv';
    csvLink.classList.remove('hidden');

    ranked.forEach(function (c) {
      var rec = c.record || {};
      var card = document.createElement('div');
      card.className = 'card';
      var name = document.createElement('div');
      name.className = 'name';
      name.textContent = '🧬 ' + (rec.formula_pretty || c.formula);
      card.appendChild(name);
      var meta = document.createElement('div');
      meta.className = 'meta';
      meta.textContent = 'MP ID: ' + (rec.material_id || 'N/A') +
        ' | E_f: ' + fmt(rec.formation_energy_per_atom) + ' eV/atom' +
        ' | Band Gap: ' + fmt(rec.band_gap) + ' eV';
      card.appendChild(meta);
      if (rec.material_id && c.cif) {
        var frame = document.createElement('iframe');
        frame.src = '/viewer/' + encodeURIComponent(rec.material_id);
        frame.loading = 'lazy';
        card.appendChild(frame);
      }
      viewers.appendChild(card);
    });
  }
})();
</script>
</body>
</html>
`
