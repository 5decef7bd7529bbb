package processors

import (
	"fmt"
	"strings"

	"github.com/birdayz/sigchain/node"
)

const AudioMonitorType = "AudioMonitor"

// AudioMonitor passes its input through and exposes two extra monitor
// channels behind its regular outputs, which the resolver routes to the
// audio node.
type AudioMonitor struct {
	node.Base

	muted bool
}

func NewAudioMonitor(name string) *AudioMonitor {
	return &AudioMonitor{Base: node.NewBase(AudioMonitorType, name)}
}

func (a *AudioMonitor) IsAudioMonitor() bool { return true }

// MonitorChannels returns the indices of the two monitor outputs.
func (a *AudioMonitor) MonitorChannels() [2]int {
	return [2]int{a.NumOutputs(), a.NumOutputs() + 1}
}

func (a *AudioMonitor) Muted() bool { return a.muted }

// HandleConfigMessage understands "mute" and "unmute".
func (a *AudioMonitor) HandleConfigMessage(msg string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(msg)) {
	case "mute":
		a.muted = true
	case "unmute":
		a.muted = false
	default:
		return "", fmt.Errorf("%s: unknown command %q", a.Name(), msg)
	}
	return fmt.Sprintf("%s muted=%t", a.Name(), a.muted), nil
}

var _ node.ConfigHandler = (*AudioMonitor)(nil)
