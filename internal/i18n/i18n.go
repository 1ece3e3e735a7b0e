// Package i18n resolves message keys to English or Vietnamese text.
package i18n

import (
	"sort"
	"strings"

	"github.com/iliyamo/table-reservation/internal/history"
)

// Default is the language used for unknown language codes.
const Default = "en"

var messages = map[string]map[string]string{
	"en": {
		history.MsgErrorFetching: "Could not load your reservations.",
		history.MsgUpdateSuccess: "Reservation updated.",
		history.MsgUpdateFail:    "Could not update the reservation.",
		history.MsgCancelSuccess: "Reservation cancelled.",
		history.MsgCancelFail:    "Could not cancel the reservation.",
		history.MsgUnknownTable:  "Unknown table",

		history.MsgStatusAll:       "All",
		history.MsgStatusPending:   "Pending",
		history.MsgStatusConfirmed: "Confirmed",
		history.MsgStatusCancelled: "Cancelled",
		history.MsgStatusCompleted: "Completed",
		history.MsgStatusUnknown:   "Unknown",

		history.MsgConfirmCancelTitle:   "Cancel reservation",
		history.MsgConfirmCancelMessage: "Are you sure you want to cancel this reservation?",
		history.MsgConfirmCancelButton:  "Yes, cancel it",
		history.MsgCancelButton:         "Keep it",

		history.MsgTitle:             "My reservations",
		history.MsgFilterLabel:       "Status",
		history.MsgSortLabel:         "Sort by",
		history.MsgNoReservations:    "You have no reservations.",
		history.MsgNoReservationsTip: "Book a table and it will show up here.",
		history.MsgTableTime:         "Table / time",
		history.MsgDetails:           "Details",
		history.MsgStatusLabel:       "Status",
		history.MsgActions:           "Actions",
		history.MsgNumberOfPeople:    "People",

		history.MsgSortNewest:   "Newest first",
		history.MsgSortOldest:   "Oldest first",
		history.MsgSortTimeAsc:  "Reservation time, earliest first",
		history.MsgSortTimeDesc: "Reservation time, latest first",
	},
	"vi": {
		history.MsgErrorFetching: "Không thể tải danh sách đặt bàn.",
		history.MsgUpdateSuccess: "Cập nhật đặt bàn thành công.",
		history.MsgUpdateFail:    "Cập nhật đặt bàn thất bại.",
		history.MsgCancelSuccess: "Đã hủy đặt bàn.",
		history.MsgCancelFail:    "Hủy đặt bàn thất bại.",
		history.MsgUnknownTable:  "Không rõ bàn",

		history.MsgStatusAll:       "Tất cả",
		history.MsgStatusPending:   "Đang chờ",
		history.MsgStatusConfirmed: "Đã xác nhận",
		history.MsgStatusCancelled: "Đã hủy",
		history.MsgStatusCompleted: "Hoàn thành",
		history.MsgStatusUnknown:   "Không xác định",

		history.MsgConfirmCancelTitle:   "Hủy đặt bàn",
		history.MsgConfirmCancelMessage: "Bạn có chắc muốn hủy đặt bàn này không?",
		history.MsgConfirmCancelButton:  "Hủy đặt bàn",
		history.MsgCancelButton:         "Không",

		history.MsgTitle:             "Lịch sử đặt bàn",
		history.MsgFilterLabel:       "Trạng thái",
		history.MsgSortLabel:         "Sắp xếp",
		history.MsgNoReservations:    "Bạn chưa có đặt bàn nào.",
		history.MsgNoReservationsTip: "Hãy đặt bàn và lịch sử sẽ hiển thị tại đây.",
		history.MsgTableTime:         "Bàn / thời gian",
		history.MsgDetails:           "Chi tiết",
		history.MsgStatusLabel:       "Trạng thái",
		history.MsgActions:           "Thao tác",
		history.MsgNumberOfPeople:    "Số người",

		history.MsgSortNewest:   "Mới nhất",
		history.MsgSortOldest:   "Cũ nhất",
		history.MsgSortTimeAsc:  "Thời gian đặt tăng dần",
		history.MsgSortTimeDesc: "Thời gian đặt giảm dần",
	},
}

// Catalog is the message set of one language.  It implements
// history.Translator.
type Catalog struct {
	lang string
	msgs map[string]string
}

// New returns the catalog for lang ("en", "vi", "vi-VN", ...).  Unknown
// languages fall back to English.
func New(lang string) *Catalog {
	code := strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	msgs, ok := messages[code]
	if !ok {
		code = Default
		msgs = messages[Default]
	}
	return &Catalog{lang: code, msgs: msgs}
}

// Lang returns the resolved language code.
func (c *Catalog) Lang() string { return c.lang }

// T returns the text of key, or key itself when it has no translation.
func (c *Catalog) T(key string) string {
	if s, ok := c.msgs[key]; ok {
		return s
	}
	return key
}

// Languages returns the supported language codes in sorted order.
func Languages() []string {
	out := make([]string, 0, len(messages))
	for k := range messages {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var _ history.Translator = (*Catalog)(nil)
