// Package resilience provides the timeout wrapper used around collaborator
// lookups during authentication. A lookup that exceeds its deadline fails
// closed: the request is rejected, never allowed through. The core performs
// no retries; a rejected authentication is final for that request.
package resilience
