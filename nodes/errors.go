package nodes

import "github.com/pkg/errors"

func wrapLoadError(kind string, err error) error {
	return errors.Wrapf(err, "failed to load %s from url", kind)
}
