package geolocation

import (
	"context"

	"github.com/around-app/around/internal/core/domain"
)

// StaticLocator always reports the same coordinates.
type StaticLocator struct {
	pos domain.GeoPosition
}

func NewStaticLocator(pos domain.GeoPosition) *StaticLocator {
	return &StaticLocator{pos: pos}
}

func (l *StaticLocator) CurrentPosition(ctx context.Context, _ domain.GeoOptions) (domain.GeoPosition, error) {
	if err := ctx.Err(); err != nil {
		return domain.GeoPosition{}, err
	}
	return l.pos, nil
}
