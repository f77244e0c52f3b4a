// Package roll wraps dice rollers with logging.
package roll

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.uber.org/zap"
)

// LoggedRoller is a dice.Roller that logs every roll at debug level.
type LoggedRoller struct {
	inner  dice.Roller
	logger *zap.Logger
}

// NewLoggedRoller wraps inner. A nil inner uses dice.DefaultRoller.
func NewLoggedRoller(inner dice.Roller, logger *zap.Logger) *LoggedRoller {
	if inner == nil {
		inner = dice.DefaultRoller
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggedRoller{inner: inner, logger: logger}
}

// Roll rolls a single die of the given size.
func (r *LoggedRoller) Roll(size int) (int, error) {
	result, err := r.inner.Roll(size)
	if err != nil {
		r.logger.Warn("dice roll failed", zap.Int("size", size), zap.Error(err))
		return 0, err
	}
	r.logger.Debug("dice roll", zap.Int("size", size), zap.Int("result", result))
	return result, nil
}

// RollN rolls count dice of the given size.
func (r *LoggedRoller) RollN(count, size int) ([]int, error) {
	results, err := r.inner.RollN(count, size)
	if err != nil {
		r.logger.Warn("dice roll failed", zap.Int("count", count), zap.Int("size", size), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("dice roll", zap.Int("count", count), zap.Int("size", size), zap.Ints("results", results))
	return results, nil
}
