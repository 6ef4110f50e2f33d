// Package urls provides centralized constants for the documentation URLs the
// analyzer points users at, so they can be updated in a single location.
//
// Usage:
//
//	import "github.com/muurk/klipper-analyzer/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.Bootloaders)
package urls
