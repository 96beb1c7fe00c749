package correlation

import (
	"fmt"
	"regexp"
	"strconv"
)

// Токены в теме письма переживают Re:/Fwd: и ручные правки вокруг них;
// это единственная связь входящего ответа с парой (rfp, vendor).
var (
	rfpTagRe    = regexp.MustCompile(`\[RFP-ID:(\d+)\]`)
	vendorTagRe = regexp.MustCompile(`\[VENDOR-ID:(\d+)\]`)
)

// Encode возвращает суффикс темы с обоими тегами.
func Encode(rfpID, vendorID int) string {
	return fmt.Sprintf("[RFP-ID:%d] [VENDOR-ID:%d]", rfpID, vendorID)
}

// Decode ищет оба тега в произвольном тексте темы, порядок не важен.
// ok=false, если хотя бы один тег отсутствует.
func Decode(subject string) (rfpID, vendorID int, ok bool) {
	rfpMatch := rfpTagRe.FindStringSubmatch(subject)
	vendorMatch := vendorTagRe.FindStringSubmatch(subject)
	if rfpMatch == nil || vendorMatch == nil {
		return 0, 0, false
	}

	rfpID, err := strconv.Atoi(rfpMatch[1])
	if err != nil {
		return 0, 0, false
	}
	vendorID, err = strconv.Atoi(vendorMatch[1])
	if err != nil {
		return 0, 0, false
	}
	return rfpID, vendorID, true
}
