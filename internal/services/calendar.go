package services

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/dmitrijs2005/licai/internal/models"
)

const (
	icsProdID    = "-//我的财富//NONSGML v1.0//EN"
	icsUIDDomain = "licai-system"
)

// CalendarEvent returns a file name and an iCalendar document with one
// one-hour event at the maturity of deposit id.
func (e *DepositEngine) CalendarEvent(id int64) (string, []byte, error) {
	d, err := e.Get(id)
	if err != nil {
		return "", nil, err
	}
	title := eventTitle(d)
	return title + ".ics", BuildICS(d, e.now()), nil
}

func eventTitle(d models.Deposit) string {
	return d.Bank + "定期存款到期"
}

// BuildICS renders the maturity event of d. stamp is the DTSTAMP.
func BuildICS(d models.Deposit, stamp time.Time) []byte {
	start := d.ExpiryDate.UTC()

	remarks := d.Remarks
	if remarks == "" {
		remarks = "无"
	}
	description := strings.Join([]string{
		"银行：" + d.Bank,
		"金额：¥" + d.Amount.StringFixed(2),
		"利率：" + d.Rate.String() + "%",
		fmt.Sprintf("存期：%d个月", d.TermMonths),
		"利息：¥" + d.Interest.StringFixed(2),
		"备注：" + remarks,
	}, "\n")

	cal := ics.NewCalendar()
	cal.SetProductId(icsProdID)

	event := cal.AddEvent(fmt.Sprintf("%d@%s", d.ID, icsUIDDomain))
	event.SetDtStampTime(stamp.UTC())
	event.SetStartAt(start)
	event.SetEndAt(start.Add(time.Hour))
	event.SetSummary(eventTitle(d))
	event.SetDescription(description)
	event.SetStatus(ics.ObjectStatusConfirmed)

	return []byte(cal.Serialize())
}
