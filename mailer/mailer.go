package mailer

import (
	"errors"
	"fmt"
	"strings"

	"erp-app/config"
	"erp-app/repositories"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// SendKickSchedule emails one vendor its kick schedule for a date:
// per box type the allotment, what is scheduled against it, and the
// lines in kick order. Mail failures surface to the caller of the mail
// endpoint; scheduling transactions never wait on SMTP.
func SendKickSchedule(db *gorm.DB, vendorID uint, kickDate string) error {
	var v struct {
		Name  string
		Email string
	}
	if err := db.Raw(`SELECT name, email FROM vendors WHERE id = ? AND deleted_at IS NULL`, vendorID).
		Scan(&v).Error; err != nil {
		return err
	}
	if v.Email == "" {
		return errors.New("vendor has no email address")
	}

	groups, err := repositories.NewPriorityRepository(db).BuildPriorityList(kickDate, kickDate, vendorID)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Kick schedule for %s on %s\r\n\r\n", v.Name, kickDate)

	if len(groups) == 0 {
		b.WriteString("No production scheduled.\r\n")
	}
	for _, vendorGroup := range groups {
		for _, day := range vendorGroup.Days {
			for _, bucket := range day.Buckets {
				fmt.Fprintf(&b, "%s: allotment %d, scheduled %d, remaining %d\r\n",
					bucket.BoxType, bucket.Allotment, bucket.ScheduledQty, bucket.Remaining)
				for _, line := range bucket.Lines {
					fmt.Fprintf(&b, "  %d. %s  %s  qty %d\r\n",
						line.Seq+1, line.PoNo, line.ItemCode, line.Quantity)
				}
				b.WriteString("\r\n")
			}
		}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.SMTPFrom)
	m.SetHeader("To", v.Email)
	m.SetHeader("Subject", fmt.Sprintf("Kick schedule %s - %s", kickDate, v.Name))
	m.SetBody("text/plain", b.String())

	d := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPass)
	return d.DialAndSend(m)
}
