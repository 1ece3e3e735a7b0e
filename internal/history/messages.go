package history

import "github.com/iliyamo/table-reservation/internal/model"

// Message keys resolved through the Translator.
const (
	MsgErrorFetching = "userReservation.errorFetching"
	MsgUpdateSuccess = "userReservation.updateSuccess"
	MsgUpdateFail    = "userReservation.updateFail"
	MsgCancelSuccess = "userReservation.cancelSuccess"
	MsgCancelFail    = "userReservation.cancelFail"
	MsgUnknownTable  = "userReservation.unknownTable"

	MsgStatusAll       = "userReservation.status.all"
	MsgStatusPending   = "userReservation.status.pending"
	MsgStatusConfirmed = "userReservation.status.confirmed"
	MsgStatusCancelled = "userReservation.status.cancelled"
	MsgStatusCompleted = "userReservation.status.completed"
	MsgStatusUnknown   = "userReservation.status.unknown"

	MsgConfirmCancelTitle   = "userReservation.confirmCancelTitle"
	MsgConfirmCancelMessage = "userReservation.confirmCancelMessage"
	MsgConfirmCancelButton  = "userReservation.confirmCancelButton"
	MsgCancelButton         = "userReservation.cancelButton"

	MsgTitle             = "userReservation.title"
	MsgFilterLabel       = "userReservation.filterLabel"
	MsgSortLabel         = "userReservation.sortLabel"
	MsgNoReservations    = "userReservation.noReservations"
	MsgNoReservationsTip = "userReservation.noReservationsTip"
	MsgTableTime         = "userReservation.tableTime"
	MsgDetails           = "userReservation.details"
	MsgStatusLabel       = "userReservation.statusLabel"
	MsgActions           = "userReservation.actions"
	MsgNumberOfPeople    = "userReservation.numberOfPeople"

	MsgSortNewest   = "userReservation.sort.newest"
	MsgSortOldest   = "userReservation.sort.oldest"
	MsgSortTimeAsc  = "userReservation.sort.timeAsc"
	MsgSortTimeDesc = "userReservation.sort.timeDesc"
)

// SortKey returns the message key of a sort option label.
func SortKey(s model.Sort) string {
	switch s {
	case model.Sort{Key: model.SortCreatedAt, Dir: model.Desc}:
		return MsgSortNewest
	case model.Sort{Key: model.SortCreatedAt, Dir: model.Asc}:
		return MsgSortOldest
	case model.Sort{Key: model.SortReservationTime, Dir: model.Asc}:
		return MsgSortTimeAsc
	case model.Sort{Key: model.SortReservationTime, Dir: model.Desc}:
		return MsgSortTimeDesc
	}
	return s.String()
}

// StatusKey returns the message key of a status label.  Unknown statuses
// map to MsgStatusUnknown.
func StatusKey(s model.Status) string {
	switch s {
	case model.StatusPending:
		return MsgStatusPending
	case model.StatusConfirmed:
		return MsgStatusConfirmed
	case model.StatusCancelled:
		return MsgStatusCancelled
	case model.StatusCompleted:
		return MsgStatusCompleted
	case model.StatusAll:
		return MsgStatusAll
	}
	return MsgStatusUnknown
}
