// Package board holds the message-board rules that must not live in the
// browser: nickname protection and post password hashing.
package board

import "strings"

// AdminNickname is the canonical display name an authenticated admin
// posts under.
const AdminNickname = "lukep81"

// protectedNicknames blocks the admin name and its common lookalikes
// (case swaps, 1/l/I substitutions, separators) from impersonation.
var protectedNicknames = []string{
	"lukep81",
	"lukep8l",
	"lukep8i",
	"iukep81",
	"1ukep81",
	"1ukep8l",
	"1ukep8i",
	"luke p81",
	"luke_p81",
	"luke-p81",
	"lukep 81",
	"luke81",
	"lukep",
	"lukepi81",
	"lukep81_",
	"_lukep81",
}

// Validation is the outcome of a nickname check.
type Validation struct {
	Valid bool `json:"isValid"`
	// Processed is the nickname to actually use; the admin auth code is
	// rewritten to the canonical admin name.
	Processed string `json:"processedNickname,omitempty"`
	IsAdmin   bool   `json:"isAdmin"`
	Reason    string `json:"error,omitempty"`
}

// ValidateNickname applies the server-side nickname rules. adminCode is
// the secret that unlocks the admin name; empty disables that path.
func ValidateNickname(nickname, adminCode string) Validation {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return Validation{Reason: "NICKNAME_REQUIRED"}
	}

	normalized := strings.ToLower(nickname)

	if adminCode != "" && normalized == strings.ToLower(adminCode) {
		return Validation{Valid: true, Processed: AdminNickname, IsAdmin: true}
	}

	for _, p := range protectedNicknames {
		if normalized == p {
			return Validation{Reason: "PROTECTED_NICKNAME"}
		}
	}

	return Validation{Valid: true, Processed: nickname}
}
