package consumer

import "time"

func SetRetryBackoff(d time.Duration) func() {
	prev, prevMax := retryBackoff, maxRetryBackoff
	retryBackoff, maxRetryBackoff = d, d
	return func() { retryBackoff, maxRetryBackoff = prev, prevMax }
}
