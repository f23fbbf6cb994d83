package storex

import "fmt"

// Store layout. Year/month/day segments keep their raw string form; the
// scanner devices write month and day without zero padding.
const (
	scanLogRoot          = "logging_db/Scanning"
	ordersNode           = "orders_DB_V3"
	placementNode        = "placement_db"
	usersNode            = "user_db"
	telegramUsersNode    = "tg_user_db"
	thresholdMessageNode = "scan_threshold_message_db"
	thresholdSummaryRoot = "scan_threshold_db"
	salesNode            = "order_salles_db"
)

func ScanLogYearPath(year string) string {
	return fmt.Sprintf("%s/%s", scanLogRoot, year)
}

func ScanLogMonthPath(year, month string) string {
	return fmt.Sprintf("%s/%s/%s", scanLogRoot, year, month)
}

func ScanLogDayPath(year, month, day string) string {
	return fmt.Sprintf("%s/%s/%s/%s", scanLogRoot, year, month, day)
}

func OrdersPath() string { return ordersNode }

func PlacementParamsPath() string { return placementNode }

func UsersPath() string { return usersNode }

func UserPath(uid string) string { return usersNode + "/" + uid }

func TelegramUsersPath() string { return telegramUsersNode }

func TelegramUserPath(chatID string) string { return telegramUsersNode + "/" + chatID }

func ThresholdSettingsPath() string { return thresholdMessageNode }

func ThresholdSummaryPath(year, month, day string) string {
	return fmt.Sprintf("%s/%s/%s/%s", thresholdSummaryRoot, year, month, day)
}

func SalesOrdersPath() string { return salesNode }
