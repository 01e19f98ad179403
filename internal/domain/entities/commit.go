package entities

import "time"

// Commit is one entry of a repository's history, newest first when listed
type Commit struct {
	SHA       string
	Message   string
	Author    string
	Timestamp time.Time

	// Signature is the armored OpenPGP signature and Payload the signed
	// commit object, both empty for unsigned commits
	Signature string
	Payload   string
}

// Signed reports whether the commit carries a signature
func (c Commit) Signed() bool {
	return c.Signature != "" && c.Payload != ""
}
