package redis

// KeyPrefixAvail namespaces the availability verdict hashes.
const KeyPrefixAvail = "handleforge:avail:"

// AvailKey returns the redis key holding a handle's cached verdict.
func AvailKey(handle string) string {
	return KeyPrefixAvail + handle
}
