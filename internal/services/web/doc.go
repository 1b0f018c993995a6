// Package web hosts the browser-facing user management server.
//
// The server renders the registration form and the user listing on the
// server side and talks to the remote users API for every read and write.
// Feature areas live under modules/ and are composed by app.Compose.
package web
