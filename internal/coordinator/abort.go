// GoToSocial
// Copyright (C) GoToSocial Authors admin@gotosocial.org
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package coordinator

import "context"

// Abort consumes the session and, if a multipart upload was started,
// best-effort cancels it. Always succeeds from the caller's point of view:
// the client always receives 204 regardless of whether a session existed
// or the abort_multipart call itself failed.
func (c *Coordinator) Abort(ctx context.Context, authorization string) {
	sess, _, werr := c.Sessions.Read(ctx, authorization, true)
	if werr != nil {
		return
	}
	c.bestEffortAbort(ctx, sess.S3Key, sess.UploadID)
}
