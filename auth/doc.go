// Package auth holds everything needed to decide whether a request is
// allowed into the admin area: the credential file, the password hash
// scheme and the in-memory session registry.
//
// The session model is deliberately simple: a successful login mints a
// random token which is handed back as a cookie and kept only in
// process memory, together with the username and an absolute expiry.
// Restarting the process logs everyone out; tokens also disappear when
// they expire or when logout destroys them. There is no replication
// and no persistent session store, a single admin does not need one.
//
// Passwords are never kept in plain text anywhere: the credential file
// stores bcrypt hashes and the plaintext only exists for the duration
// of a login or registration call.
package auth
