package httpserver

import "time"

const (
	defaultAddress = ":8080"

	readTimeout       = 5 * time.Second
	readHeaderTimeout = 3 * time.Second
	idleTimeout       = 60 * time.Second
	maxHeaderBytes    = 1 << 12 // 4kb

	// sweeps walk every cluster, so writes get more room than reads
	writeTimeout = 5 * time.Minute

	maxBodyBytes = 1 << 16
)
