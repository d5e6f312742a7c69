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

package pkg

var (
	// Version - the version being released (v prefix stripped)
	Version = "(dev)"
	// ReleaseTag - the current git tag
	ReleaseTag = "(no tag)"
	// ReleaseTime - current UTC date in RFC3339 format.
	ReleaseTime = "(no release)"
	// CommitID - latest commit id.
	CommitID = "(dev)"
	// ShortCommitID - first 12 characters from CommitID.
	ShortCommitID = "(dev)"
)
