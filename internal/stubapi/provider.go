package stubapi

import "fmt"

// Provider delivers one message during a real (non dry-run) send. The
// default provider always succeeds; tests plug in failures.
type Provider interface {
	Send(to, subject, body string) error
}

type ProviderFunc func(to, subject, body string) error

func (f ProviderFunc) Send(to, subject, body string) error {
	return f(to, subject, body)
}

// FailingProvider rejects every send, for exercising the failed status path.
func FailingProvider(reason string) Provider {
	return ProviderFunc(func(to, subject, body string) error {
		return fmt.Errorf("send to %s failed: %s", to, reason)
	})
}
