package dist

import "errors"

var ErrSynthesize = errors.New("distribution synthesis failed")
