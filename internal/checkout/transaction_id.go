package checkout

import (
	"fmt"
	"time"
)

const timestampLayout = "20060102150405"

// NewTransactionID builds the synthetic order number used when no remote
// order exists yet (counter mode): POS + YYYYMMDDHHmmssSSS.
func NewTransactionID(now time.Time) string {
	return "POS" + timestamp(now)
}

// NewTellerTransactionID builds the teller id sent with a cash settlement:
// CASH + teller code + YYYYMMDDHHmmssSSS.
func NewTellerTransactionID(tellerCode string, now time.Time) string {
	return "CASH" + tellerCode + timestamp(now)
}

func timestamp(now time.Time) string {
	return fmt.Sprintf("%s%03d", now.Format(timestampLayout), now.Nanosecond()/int(time.Millisecond))
}
