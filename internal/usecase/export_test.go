package usecase

func init() {
	asyncNotifications = false
}
