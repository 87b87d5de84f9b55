package services

type serviceManager struct {
	question     QuestionService
	grading      GradingService
	stats        StatsService
	auth         AuthService
	importExport ImportExportService
}

func NewServiceManager(
	question QuestionService,
	grading GradingService,
	stats StatsService,
	auth AuthService,
	importExport ImportExportService,
) ServiceManager {
	return &serviceManager{
		question:     question,
		grading:      grading,
		stats:        stats,
		auth:         auth,
		importExport: importExport,
	}
}

func (m *serviceManager) Question() QuestionService         { return m.question }
func (m *serviceManager) Grading() GradingService           { return m.grading }
func (m *serviceManager) Stats() StatsService               { return m.stats }
func (m *serviceManager) Auth() AuthService                 { return m.auth }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
