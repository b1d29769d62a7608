package startbot

// startPage logs in once, keeps the token in localStorage and starts the bot
// with it on every later visit.
const startPage = `<!DOCTYPE html>
<html>
	<head>
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<title>splitbill</title>
		<script>
			const tokenKey = 'auth_token'

			async function start(headers, body) {
				show('loading')
				const resp = await fetch(window.location.href, { method: 'POST', headers, body })
				if (resp.status === 201) {
					const text = await resp.text()
					if (text.startsWith('{')) {
						localStorage.setItem(tokenKey, JSON.parse(text).auth_token)
					}
					show('success')
					return
				}
				if (resp.status === 401 && headers['Authorization']) {
					localStorage.removeItem(tokenKey)
					show('form')
					return
				}
				const errors = { 401: 'Invalid password.', 422: 'Invalid user.' }
				document.getElementById('error-message').textContent = errors[resp.status] || await resp.text()
				show('form')
			}

			function startApp() {
				const token = localStorage.getItem(tokenKey)
				if (!token) {
					show('form')
					return
				}
				start({ 'Authorization': 'Bearer ' + token })
			}

			function submit() {
				const user = document.getElementById('user').value
				const password = document.getElementById('password').value
				start({ 'Content-Type': 'application/json' }, JSON.stringify({ user, password }))
			}

			function show(divID) {
				for (const id of ['loading', 'form', 'success']) {
					document.getElementById(id).hidden = id !== divID
				}
			}
		</script>
	</head>
	<body onload="startApp()">
		<div id="loading">Loading...</div>
		<div id="form" hidden>
			<p id="error-message"></p>
			<label for="user">User:</label><br>
			<input type="text" id="user" name="user"><br>
			<label for="password">Password:</label><br>
			<input type="password" id="password" name="password"><br>
			<button onclick="submit()">Start the bot</button>
		</div>
		<div id="success" hidden>The bot is starting, check Telegram.</div>
	</body>
</html>
`
