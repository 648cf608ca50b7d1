package resolution

import (
	"strings"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// classifierRule maps a lowercase keyword to an action kind.
type classifierRule struct {
	keyword string
	action  model.ActionKind
}

// classifierRules is the ordered rule list for free-text suggestion
// classification. Order matters: "remove duplicate" must match before the
// bare "remove". First match wins; anything unmatched is OTHER.
var classifierRules = []classifierRule{
	{"remove duplicate", model.ActionRemoveDuplicate},
	{"duplicate", model.ActionRemoveDuplicate},
	{"collapse", model.ActionEnumCollapse},
	{"enum", model.ActionEnumCollapse},
	// "remove" sits before "move" because it contains it.
	{"remove", model.ActionRemove},
	{"delete", model.ActionRemove},
	{"move", model.ActionMove},
	{"relocate", model.ActionMove},
	{"create relationship", model.ActionCreateRelationship},
	{"add relationship", model.ActionCreateRelationship},
	{"link", model.ActionCreateRelationship},
	{"connect", model.ActionCreateRelationship},
	{"add attribute", model.ActionAddAttribute},
	{"attribute", model.ActionAddAttribute},
	{"clarify", model.ActionClarify},
	{"describe", model.ActionClarify},
	{"rename", model.ActionClarify},
}

// Classify maps a free-text suggestion onto the closed action-kind set.
func Classify(suggestion string) model.ActionKind {
	lower := strings.ToLower(suggestion)
	for _, rule := range classifierRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.action
		}
	}
	return model.ActionOther
}
