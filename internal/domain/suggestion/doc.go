// Package suggestion provides the launcher's suggestion registry.
//
// Suggestions are the entries shown when the user opens the launcher:
// each names a story that can be spawned, with keywords used for
// relevance ranking as the user types. The catalog is seeded from YAML
// files at boot and can be extended at runtime.
package suggestion
