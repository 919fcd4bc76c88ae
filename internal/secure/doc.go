// Package secure keeps the Lastpass master password out of plain process
// memory for the window between collecting it and handing it to the login
// call.
//
// Buffer wraps a memguard enclave: the password is encrypted at rest in
// memory (XSalsa20Poly1305), the backing pages are mlocked where the
// platform allows it and wiped when the buffer is destroyed. main installs
// memguard's interrupt handler and purges all enclave memory on exit, so a
// Ctrl-C during the password prompt does not leave plaintext behind.
//
// The protection ends at the login boundary: the vault library receives a
// plain string copy, and Go strings cannot be wiped. What the package does
// guarantee is that core dumps and swap never see the password while the
// tool waits on the network, and that the plaintext window is as short as
// the authentication flow allows.
package secure
