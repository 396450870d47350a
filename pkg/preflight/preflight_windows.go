//go:build windows

package preflight

// platformCheckWritable is a no-op on Windows. access(2)-style probes don't
// reflect ACL evaluation there, so the existence check in CheckOutputWritable
// is the best side-effect-free validation available.
func platformCheckWritable(dir string) error {
	return nil
}
