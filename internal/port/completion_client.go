package port

import "context"

// CompletionClient sends one prompt to a chat-completion model and returns the raw
// response body. The credential is supplied per call and never cached.
type CompletionClient interface {
	Complete(ctx context.Context, prompt, credential string) ([]byte, error)
}
