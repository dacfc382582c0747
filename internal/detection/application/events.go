package application

import alerts "ecocore-cloud/internal/alerts/domain"

// AlertRaised is published after an alert is appended to the log.
// Subscribers are the notifier and metrics; detection does not depend
// on either directly.
type AlertRaised struct {
	Alert alerts.Alert
}
