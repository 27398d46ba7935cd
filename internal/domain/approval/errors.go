package approval

import "errors"

var (
	ErrInvalidDecision        = errors.New("decision must be APPROVED or REJECTED")
	ErrAlreadyProcessed       = errors.New("request already processed")
	ErrAlreadyReviewed        = errors.New("request already reviewed at this level")
	ErrNotAuthorized          = errors.New("not authorized to review this request")
	ErrNotYourLevel           = errors.New("request is not awaiting review at your level")
	ErrVisitApprovalForbidden = errors.New("business heads cannot approve visit requests")
)
