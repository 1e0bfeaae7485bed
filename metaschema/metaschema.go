// Package metaschema embeds the two draft-04 meta-schemas walbottle bundles,
// mirroring the schema package's go:embed-based i18n bundle (schema/i18n.go): the
// resources are compiled into the binary instead of read from disk, so the
// reference resolver never needs network access to validate schemas against
// their own meta-schema.
package metaschema

import _ "embed"

//go:embed schema.json
var coreSchema []byte

//go:embed hyper-schema.json
var hyperSchema []byte

// Core returns the bundled draft-04 core meta-schema
// ("http://json-schema.org/schema#").
func Core() []byte { return coreSchema }

// Hyper returns the bundled draft-04 hyper-schema
// ("http://json-schema.org/hyper-schema#").
func Hyper() []byte { return hyperSchema }
