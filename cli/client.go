/*
 * Lakegen (C) 2025-2026 Lakegen Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package cli

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/minio/cli"
	"github.com/minio/mc/pkg/probe"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/russfellows/lakegen/pkg"
)

// newClient creates an S3 client from command line flags.
func newClient(ctx *cli.Context) *minio.Client {
	host := ctx.String("host")
	if host == "" {
		fatalIf(probe.NewError(errors.New("no host defined")), "Unable to create S3 client")
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(ctx.String("access-key"), ctx.String("secret-key"), ""),
		Secure: ctx.Bool("tls"),
		Region: ctx.String("region"),
	}
	if ctx.Bool("insecure") && opts.Secure {
		opts.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	cl, err := minio.New(host, opts)
	fatalIf(probe.NewError(err), "Unable to create S3 client")
	cl.SetAppInfo(appName, pkg.Version)
	return cl
}

// checkBucket verifies the target bucket exists before any data is
// generated, so a typo fails in seconds instead of after the first
// chunk upload.
func checkBucket(ctx context.Context, cl *minio.Client, bucket string) error {
	to, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	ok, err := cl.BucketExists(to, bucket)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("bucket " + bucket + " does not exist")
	}
	return nil
}
