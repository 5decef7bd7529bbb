// Package engine publishes resolved topologies to the real-time side and
// starts and stops acquisition on the processors.
package engine
