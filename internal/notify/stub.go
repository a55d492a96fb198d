//go:build !linux

package notify

import "github.com/rs/zerolog"

// New returns Nop; desktop notifications need the freedesktop D-Bus service.
func New(_ zerolog.Logger) Notifier {
	return Nop{}
}
