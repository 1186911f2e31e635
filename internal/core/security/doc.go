// Package security holds the credential primitives of the authentication
// core: bcrypt password hashing and opaque bearer token generation.
package security
