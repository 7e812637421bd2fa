// Package clerk validates Clerk-issued session tokens against the tenant
// JWK Set and maps them into hub claims, so Clerk sessions can ride the
// same middleware chain as locally minted tokens.
package clerk
