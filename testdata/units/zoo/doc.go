// Package zoo holds unit files for locator tests.
package zoo
