// Package schema holds the decode targets for voice binding files.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// CommandBlock represents a `command` block from a binding file. The block
// label is the spoken-phrase rule in its surface syntax; the script is the
// body executed when the phrase is recognised.
type CommandBlock struct {
	Rule        string `hcl:"rule,label"`
	Script      string `hcl:"script"`
	Description string `hcl:"description,optional"`
}

// VoiceFile represents the top-level structure of a binding file. The
// matches and settings attributes stay undecoded expressions because their
// keys are dotted names that cannot appear as HCL attribute names.
type VoiceFile struct {
	Description string          `hcl:"description,optional"`
	Matches     hcl.Expression  `hcl:"matches,optional"`
	Settings    hcl.Expression  `hcl:"settings,optional"`
	Tags        []string        `hcl:"tags,optional"`
	Commands    []*CommandBlock `hcl:"command,block"`
}
