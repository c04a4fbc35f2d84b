// Package parse extracts queue positions from inbound chat and header
// payloads. Every function is pure and total: a payload that does not carry
// a position yields ok == false, never an error.
package parse
