package handlers

import "github.com/gartstein/hrms/internal/hr/controller"

// The concrete services must satisfy the route-table interfaces; a
// drift in any method signature fails compilation here instead of in
// the composition root.
var (
	_ AnnouncementController = (*controller.AnnouncementService)(nil)
	_ NotificationController = (*controller.NotificationService)(nil)
	_ IncidentController     = (*controller.IncidentService)(nil)
	_ DocumentController     = (*controller.DocumentService)(nil)
	_ UserController         = (*controller.UserService)(nil)
	_ EmployeeController     = (*controller.EmployeeService)(nil)
)
