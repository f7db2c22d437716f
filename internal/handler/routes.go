package handler

import (
	"github.com/golang-cafe/hireboard/internal/job"
	"github.com/golang-cafe/hireboard/internal/seeker"
	"github.com/golang-cafe/hireboard/internal/server"
	"github.com/golang-cafe/hireboard/internal/user"
)

// RegisterRoutes wires every page of the site. Access rules live in the
// guard table, not here.
func RegisterRoutes(svr server.Server, userRepo *user.Repository, jobRepo *job.Repository, seekerRepo *seeker.Repository) {
	svr.RegisterRoute("/healthz", HealthHandler(svr), []string{"GET"})

	//
	// auth routes
	//

	svr.RegisterRoute("/register", GetRegisterPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/register", PostRegisterPageHandler(svr, userRepo), []string{"POST"})
	svr.RegisterRoute("/login", GetLoginPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/login", PostLoginPageHandler(svr, userRepo), []string{"POST"})
	svr.RegisterRoute("/logout", PostLogoutPageHandler(svr), []string{"POST"})

	//
	// profile routes
	//

	svr.RegisterRoute("/", HomePageHandler(svr), []string{"GET"})
	// update must come before the {type} route
	svr.RegisterRoute("/profile/update", UpdateProfileHandler(svr, userRepo), []string{"POST"})
	svr.RegisterRoute("/profile/{type}", CreateProfileHandler(svr, userRepo), []string{"POST"})

	//
	// job seeker routes
	//

	svr.RegisterRoute("/search-jobs", SearchJobsPageHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/x/apply", ApplyForJobHandler(svr, jobRepo), []string{"POST"})

	//
	// employer routes
	//

	svr.RegisterRoute("/search-talent", SearchTalentPageHandler(svr, seekerRepo), []string{"GET"})
	svr.RegisterRoute("/post-job", PostJobPageHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/post-job", SaveJobHandler(svr, jobRepo), []string{"POST"})
	svr.RegisterRoute("/jobs/{id}", JobDetailPageHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/jobs/{id}", UpdateJobHandler(svr, jobRepo), []string{"POST"})

	svr.RegisterRoute("/job-seeker/{username}", JobSeekerProfilePageHandler(svr, seekerRepo), []string{"GET"})

	svr.RegisterNotFound(NotFoundHandler(svr))
}
