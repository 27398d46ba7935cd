package visit

import "errors"

var ErrVisitRequestNotFound = errors.New("visit request not found")
