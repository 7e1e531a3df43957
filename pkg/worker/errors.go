package worker

import "errors"

var ErrNilFunc = errors.New("worker: nil worker function")
