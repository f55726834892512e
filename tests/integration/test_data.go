package integration

import (
	"fmt"
	"time"
)

// DefaultPassword satisfies the minimum-length password policy
const DefaultPassword = "pw123456"

// TestEmail generates a unique email address using a timestamp
func TestEmail(suffix string) string {
	return fmt.Sprintf("test-%d-%s@example.com", time.Now().UnixNano(), suffix)
}

// TestCode generates a unique activation code
func TestCode(suffix string) string {
	return fmt.Sprintf("code-%d-%s", time.Now().UnixNano(), suffix)
}
