package processors

import (
	"fmt"
	"strconv"

	"github.com/birdayz/sigchain/node"
)

func intParam(b *node.Base, key string, def int) (int, error) {
	v, ok := b.Param(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("parameter %s: %w", key, err)
	}
	return n, nil
}

func floatParam(b *node.Base, key string, def float64) (float64, error) {
	v, ok := b.Param(key)
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("parameter %s: %w", key, err)
	}
	return f, nil
}
