// Package cli provides the AfterYou command-line client.
//
// Every screen of the web app is a cobra command guarded by the same route
// rules (see package router): public-only commands such as login refuse to
// run when signed in, protected ones need a session and system needs the
// admin role. Token links (inherit, chain) are open.
//
// The shell command runs an interactive loop over the same command tree and
// keeps the session, so its help only lists what the current user may run.
//
// Execute is the entry point; it builds the App lazily through a Factory so
// commands that need neither the backend nor the session database (config
// init, export open) work offline.
package cli
