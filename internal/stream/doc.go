// Package stream consumes the agent event source: it sends a run request
// and turns the resulting text/event-stream body into a channel of parsed
// events. Reconnection and backoff are deliberately out of scope; callers
// get exactly what one response body yields.
package stream
