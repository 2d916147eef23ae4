package sqlinline

// Schema lists the idempotent statements that create the tables read by the
// dashboard. They run in order, one statement per Exec.
var Schema = []string{
	QCreateUUIDExtension,
	QCreateBloodTable,
	QCreateBloodTypeIndex,
	QCreateBloodCityIndex,
	QCreateBloodCreatedAtIndex,
	QCreateSearchLogsTable,
	QCreateSearchLogsSearchedAtIndex,
	QCreateSearchLogsBloodTypeIndex,
	QCreateSearchLogsClientIPIndex,
}

const QCreateUUIDExtension = `--sql a5300490-28e6-4da5-b7b0-61a91773756a
create extension if not exists "uuid-ossp";
`

const QCreateBloodTable = `--sql 9e3f942b-d142-4d36-85de-1df65cb27826
create table if not exists public.blood (
    id uuid primary key default uuid_generate_v4(),
    donor_id uuid,
    first_name varchar(100) not null,
    phone_number varchar(20) not null,
    blood_type varchar(5) not null check (blood_type in ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    latitude decimal(10, 8) not null,
    longitude decimal(11, 8) not null,
    address text,
    city varchar(100),
    country varchar(100) default 'Kenya',
    is_verified boolean default false,
    is_available boolean default true,
    last_donation_date date,
    created_at timestamp with time zone default current_timestamp,
    updated_at timestamp with time zone default current_timestamp
);
`

const QCreateBloodTypeIndex = `--sql 78775392-1ebb-4377-88c5-e6761755fcaf
create index if not exists idx_blood_blood_type on public.blood (blood_type);
`

const QCreateBloodCityIndex = `--sql 1aec3dda-4d64-4ac2-aaf8-65bd5069993b
create index if not exists idx_blood_city on public.blood (city);
`

const QCreateBloodCreatedAtIndex = `--sql e9aa2bca-43f3-4147-9711-6ee004756940
create index if not exists idx_blood_created_at on public.blood (created_at desc);
`

const QCreateSearchLogsTable = `--sql 595ccf20-6521-437f-b4d2-28aa95209ccd
create table if not exists public.search_logs (
    id uuid primary key default uuid_generate_v4(),
    blood_type varchar(5) not null,
    latitude decimal(10, 8) not null,
    longitude decimal(11, 8) not null,
    radius_km decimal(8, 2) not null,
    results_count integer not null default 0,
    client_ip varchar(45),
    searched_at timestamp with time zone default current_timestamp
);
`

const QCreateSearchLogsSearchedAtIndex = `--sql f3ed39ec-414e-4295-b440-9f2ec816ae86
create index if not exists idx_search_logs_searched_at on public.search_logs (searched_at desc);
`

const QCreateSearchLogsBloodTypeIndex = `--sql 8a405f0a-187f-477b-a7ec-2baf20183694
create index if not exists idx_search_logs_blood_type on public.search_logs (blood_type);
`

const QCreateSearchLogsClientIPIndex = `--sql fcb443af-3481-4338-bf25-f627706b0060
create index if not exists idx_search_logs_client_ip on public.search_logs (client_ip);
`
