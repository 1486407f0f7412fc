package initializers

import (
	"context"

	"leave-backend/config"
	"leave-backend/fiberlog"
	xlsexport "leave-backend/lib/export/xls"
	leavehandler "leave-backend/lib/leave"
	leavenotify "leave-backend/lib/leave/notify"
	usershandler "leave-backend/lib/users"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	leavenotify.NewHandler()
	usershandler.NewHandler()
	leavehandler.NewHandler()
	xlsexport.NewHandler()
}
