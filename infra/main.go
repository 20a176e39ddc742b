package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/granaflow/grana-backend/infra/cloudrun"
	"github.com/granaflow/grana-backend/infra/docker"
	"github.com/granaflow/grana-backend/infra/firestore"
	"github.com/granaflow/grana-backend/infra/identity"
	"github.com/granaflow/grana-backend/infra/provider"
	"github.com/granaflow/grana-backend/infra/storage"
	"github.com/granaflow/grana-backend/infra/sweep"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity platform to allow using firebase auth
		_, err = identity.SetupIdentity(ctx)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		if err := firestore.SetupFirestore(ctx, prov); err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx)
		if err != nil {
			return err
		}

		apiSA, err := cloudrun.CreateServiceAccount(ctx, prov)
		if err != nil {
			return err
		}

		// bucket backing profile avatars
		bucket, err := storage.SetupAvatarBucket(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, bucket, apiSA, repo)
		if err != nil {
			return err
		}

		// daily recurrence sweep
		return sweep.SetupSweepJob(ctx, prov, apiSA, repo)
	})
}
