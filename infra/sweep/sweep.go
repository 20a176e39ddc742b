package sweep

import (
	"fmt"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrunv2"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudscheduler"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/granaflow/grana-backend/infra/cloudrun"
)

// SetupSweepJob deploys the recurrence sweep as a Cloud Run job fired by
// Cloud Scheduler every morning, so due recurring transactions materialize
// without any instance staying warm.
func SetupSweepJob(ctx *pulumi.Context, prov *gcp.Provider, apiSA *serviceaccount.Account, res ...pulumi.Resource) error {
	img, err := cloudrun.BuildImage(ctx, "sweepImage", "grana-sweep", "../cmd/sweep/Dockerfile", res...)
	if err != nil {
		return err
	}

	job, err := createJob(ctx, img, apiSA, prov)
	if err != nil {
		return err
	}

	return scheduleJob(ctx, job, apiSA, prov)
}

func createJob(ctx *pulumi.Context, img *docker.Image, apiSA *serviceaccount.Account, prov *gcp.Provider) (*cloudrunv2.Job, error) {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")

	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")
	logLevel := crCfg.Require("logLevel")

	return cloudrunv2.NewJob(ctx, "sweepJob", &cloudrunv2.JobArgs{
		Name:     pulumi.String("recurrence-sweep"),
		Location: pulumi.String(region),

		Template: &cloudrunv2.JobTemplateArgs{
			Template: &cloudrunv2.JobTemplateTemplateArgs{
				ServiceAccount: apiSA.Email,
				Containers: cloudrunv2.JobTemplateTemplateContainerArray{
					&cloudrunv2.JobTemplateTemplateContainerArgs{
						Image: img.ImageName,
						Envs: cloudrunv2.JobTemplateTemplateContainerEnvArray{
							&cloudrunv2.JobTemplateTemplateContainerEnvArgs{
								Name:  pulumi.String("PROJECTID"),
								Value: pulumi.String(projectID),
							},
							&cloudrunv2.JobTemplateTemplateContainerEnvArgs{
								Name:  pulumi.String("LOGLEVEL"),
								Value: pulumi.String(logLevel),
							},
						},
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
	)
}

func scheduleJob(ctx *pulumi.Context, job *cloudrunv2.Job, apiSA *serviceaccount.Account, prov *gcp.Provider) error {
	gcpCfg := config.New(ctx, "gcp")
	sweepCfg := config.New(ctx, "sweep")

	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")
	schedule := sweepCfg.Require("schedule")

	svc, err := projects.NewService(ctx, "cloudSchedulerService", &projects.ServiceArgs{
		Service: pulumi.String("cloudscheduler.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return err
	}

	_, err = cloudrunv2.NewJobIamMember(ctx, "sweepInvoker", &cloudrunv2.JobIamMemberArgs{
		Name:     job.Name,
		Location: pulumi.String(region),
		Role:     pulumi.String("roles/run.invoker"),
		Member: apiSA.Email.ApplyT(func(email string) string {
			return fmt.Sprintf("serviceAccount:%s", email)
		}).(pulumi.StringOutput),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return err
	}

	_, err = cloudscheduler.NewJob(ctx, "sweepSchedule", &cloudscheduler.JobArgs{
		Region:   pulumi.String(region),
		Schedule: pulumi.String(schedule),
		TimeZone: pulumi.String("Etc/UTC"),

		HttpTarget: &cloudscheduler.JobHttpTargetArgs{
			HttpMethod: pulumi.String("POST"),
			Uri: job.Name.ApplyT(func(name string) string {
				return fmt.Sprintf("https://%s-run.googleapis.com/apis/run.googleapis.com/v1/namespaces/%s/jobs/%s:run",
					region, projectID, name)
			}).(pulumi.StringOutput),
			OauthToken: &cloudscheduler.JobHttpTargetOauthTokenArgs{
				ServiceAccountEmail: apiSA.Email,
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{svc, job}),
	)
	return err
}
